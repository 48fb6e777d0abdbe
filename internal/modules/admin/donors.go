package admin

import (
	"strings"

	"bloodgroup/internal/domain"
	"bloodgroup/internal/repository"
)

// DonorQuery narrows the donor search. Nil or blank fields impose no constraint.
type DonorQuery struct {
	BloodGroup *string
	Location   *string
}

// Filter renders the query into repository predicates.
func (q DonorQuery) Filter() repository.Filter {
	return BuildDonorQuery(q.BloodGroup, q.Location)
}

// BuildDonorQuery starts from match-all and adds an exact blood group match
// and a case-insensitive location substring match for each value present.
func BuildDonorQuery(bloodGroup, location *string) repository.Filter {
	var f repository.Filter

	if v, ok := present(bloodGroup); ok {
		if bg, valid := domain.ParseBloodGroup(v); valid {
			v = string(bg)
		}
		f = f.And(repository.Equals{Column: "blood_group", Value: v})
	}
	if v, ok := present(location); ok {
		f = f.And(repository.Contains{Column: "location", Value: v})
	}
	return f
}

func present(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	v := strings.TrimSpace(*s)
	return v, v != ""
}
