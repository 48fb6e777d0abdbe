package domain

import "strings"

type BloodGroup string

const (
	BloodGroupAPos  BloodGroup = "A+"
	BloodGroupANeg  BloodGroup = "A-"
	BloodGroupABPos BloodGroup = "AB+"
	BloodGroupABNeg BloodGroup = "AB-"
	BloodGroupBPos  BloodGroup = "B+"
	BloodGroupBNeg  BloodGroup = "B-"
	BloodGroupOPos  BloodGroup = "O+"
	BloodGroupONeg  BloodGroup = "O-"

	BloodGroupUnknown BloodGroup = "Unknown"
)

// BloodGroups is indexed by the classifier's output class.
var BloodGroups = [...]BloodGroup{
	BloodGroupAPos,
	BloodGroupANeg,
	BloodGroupABPos,
	BloodGroupABNeg,
	BloodGroupBPos,
	BloodGroupBNeg,
	BloodGroupOPos,
	BloodGroupONeg,
}

// BloodGroupForClass resolves a class index, returning BloodGroupUnknown for
// indices outside the label set.
func BloodGroupForClass(idx int) BloodGroup {
	if idx < 0 || idx >= len(BloodGroups) {
		return BloodGroupUnknown
	}
	return BloodGroups[idx]
}

func ParseBloodGroup(s string) (BloodGroup, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, bg := range BloodGroups {
		if string(bg) == s {
			return bg, true
		}
	}
	return "", false
}

func (b BloodGroup) String() string { return string(b) }
