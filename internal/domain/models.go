package domain

// Models lists every persisted entity, in migration order.
func Models() []any {
	return []any{
		&User{},
		&Prediction{},
		&ContactMessage{},
	}
}
