package util

import "strings"

// FrenchNameProbability is the share of patients given a French name.
const FrenchNameProbability = 0.20

var (
	englishMaleFirstNames = []string{
		"James", "John", "Robert", "Michael", "William", "David", "Richard", "Joseph",
		"Thomas", "Charles", "Daniel", "Matthew", "Anthony", "Mark", "Steven", "Paul",
		"Andrew", "Kevin", "Brian", "George", "Edward", "Ryan", "Jacob", "Nicholas",
	}
	englishFemaleFirstNames = []string{
		"Mary", "Patricia", "Jennifer", "Linda", "Barbara", "Elizabeth", "Susan", "Jessica",
		"Sarah", "Karen", "Lisa", "Nancy", "Margaret", "Sandra", "Ashley", "Emily",
		"Donna", "Michelle", "Carol", "Amanda", "Melissa", "Rebecca", "Laura", "Helen",
	}
	englishLastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
		"Wilson", "Anderson", "Taylor", "Moore", "Jackson", "Martin", "Lee", "Thompson",
		"White", "Harris", "Clark", "Lewis", "Robinson", "Walker", "Young", "Allen",
	}
	frenchMaleFirstNames = []string{
		"Jean", "Pierre", "Michel", "André", "Philippe", "Alain", "Bernard", "Jacques",
		"François", "Nicolas", "Olivier", "Stéphane", "Éric", "Julien", "Sébastien", "Raphaël",
	}
	frenchFemaleFirstNames = []string{
		"Marie", "Nathalie", "Isabelle", "Sylvie", "Catherine", "Françoise", "Valérie", "Sophie",
		"Céline", "Aurélie", "Émilie", "Claire", "Léa", "Chloé", "Zoé", "Hélène",
	}
	frenchLastNames = []string{
		"Martin", "Bernard", "Dubois", "Thomas", "Robert", "Richard", "Petit", "Durand",
		"Leroy", "Moreau", "Simon", "Laurent", "Lefèvre", "Mercier", "Dupont", "Guérin",
	}
)

// GeneratePatientSex returns "M" or "F" with equal probability.
func GeneratePatientSex(s *Stream) string {
	return []string{"M", "F"}[s.IntN(2)]
}

// GeneratePatientName returns a DICOM person name "LAST^FIRST" for sex
// ("M" or anything else for female). Names are 80% English, 20% French.
// When ascii is set the name is folded to the default character repertoire.
func GeneratePatientName(s *Stream, sex string, ascii bool) string {
	useFrench := s.Float64() < FrenchNameProbability

	firstNames, lastNames := englishFemaleFirstNames, englishLastNames
	switch {
	case useFrench && sex == "M":
		firstNames, lastNames = frenchMaleFirstNames, frenchLastNames
	case useFrench:
		firstNames, lastNames = frenchFemaleFirstNames, frenchLastNames
	case sex == "M":
		firstNames = englishMaleFirstNames
	}

	first := firstNames[s.IntN(len(firstNames))]
	last := lastNames[s.IntN(len(lastNames))]
	name := strings.ToUpper(last) + "^" + first
	if ascii {
		return FoldASCII(name)
	}
	return name
}

// GeneratePhysicianName returns a "LAST^FIRST" name for a referring physician.
func GeneratePhysicianName(s *Stream, ascii bool) string {
	f := s.Faker()
	name := f.LastName() + "^" + f.FirstName()
	if ascii {
		return FoldASCII(name)
	}
	return name
}

// GenerateInstitutionName returns a display name for an organization.
func GenerateInstitutionName(s *Stream) string {
	f := s.Faker()
	suffixes := []string{"Imaging Center", "General Hospital", "Radiology", "Medical Center"}
	return FoldASCII(f.City() + " " + suffixes[s.IntN(len(suffixes))])
}
