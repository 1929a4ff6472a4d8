package ebook

import "strings"

// AcademicArea classifies an e-book's subject domain.
type AcademicArea string

const (
	AreaExactSciences         AcademicArea = "EXACT_SCIENCES"
	AreaHumanities            AcademicArea = "HUMANITIES"
	AreaBiologicalSciences    AcademicArea = "BIOLOGICAL_SCIENCES"
	AreaEngineering           AcademicArea = "ENGINEERING"
	AreaAppliedSocialSciences AcademicArea = "APPLIED_SOCIAL_SCIENCES"
	AreaLanguages             AcademicArea = "LANGUAGES"
	AreaAgriculturalSciences  AcademicArea = "AGRICULTURAL_SCIENCES"
	AreaHealthSciences        AcademicArea = "HEALTH_SCIENCES"
	AreaMultidisciplinary     AcademicArea = "MULTIDISCIPLINARY"
)

var (
	AcademicAreas = []AcademicArea{
		AreaExactSciences,
		AreaHumanities,
		AreaBiologicalSciences,
		AreaEngineering,
		AreaAppliedSocialSciences,
		AreaLanguages,
		AreaAgriculturalSciences,
		AreaHealthSciences,
		AreaMultidisciplinary,
	}

	// Areas lists the academic areas along with their display names.
	Areas = []Area{
		{Name: "Exact Sciences", Value: AreaExactSciences},
		{Name: "Humanities", Value: AreaHumanities},
		{Name: "Biological Sciences", Value: AreaBiologicalSciences},
		{Name: "Engineering", Value: AreaEngineering},
		{Name: "Applied Social Sciences", Value: AreaAppliedSocialSciences},
		{Name: "Languages", Value: AreaLanguages},
		{Name: "Agricultural Sciences", Value: AreaAgriculturalSciences},
		{Name: "Health Sciences", Value: AreaHealthSciences},
		{Name: "Multidisciplinary", Value: AreaMultidisciplinary},
	}
)

type Area struct {
	Name  string       `json:"name"`
	Value AcademicArea `json:"value"`
}

// IsValid reports whether a is one of AcademicAreas. The match is exact: no case folding.
func (a AcademicArea) IsValid() bool {
	switch a {
	case AreaExactSciences,
		AreaHumanities,
		AreaBiologicalSciences,
		AreaEngineering,
		AreaAppliedSocialSciences,
		AreaLanguages,
		AreaAgriculturalSciences,
		AreaHealthSciences,
		AreaMultidisciplinary:
		return true
	}
	return false
}

func (a AcademicArea) String() string { return string(a) }

// NormalizeAcademicArea trims, upper-cases and replaces hyphens with underscores.
func NormalizeAcademicArea(a AcademicArea) AcademicArea {
	s := strings.ToUpper(strings.TrimSpace(string(a)))
	return AcademicArea(strings.ReplaceAll(s, "-", "_"))
}

func joinAreas(areas []AcademicArea) string {
	strs := make([]string, 0, len(areas))
	for _, a := range areas {
		strs = append(strs, string(a))
	}
	return strings.Join(strs, ", ")
}
