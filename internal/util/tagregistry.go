package util

import (
	"fmt"
	"sort"
	"strings"

	"github.com/suyashkumar/dicom/pkg/tag"
)

// AttributeScope is the hierarchy level at which an attribute stays constant.
type AttributeScope int

const (
	ScopePatient AttributeScope = iota
	ScopeStudy
	ScopeSeries
	ScopeInstance
)

func (s AttributeScope) String() string {
	switch s {
	case ScopePatient:
		return "Patient"
	case ScopeStudy:
		return "Study"
	case ScopeSeries:
		return "Series"
	case ScopeInstance:
		return "Instance"
	default:
		return "Unknown"
	}
}

// AttributeInfo describes an attribute that may be given a fixed value.
type AttributeInfo struct {
	Name  string
	Tag   tag.Tag
	Scope AttributeScope
}

// Override pins an attribute to a fixed value for the whole run.
type Override struct {
	AttributeInfo
	Value string
}

// overridable maps lowercase attribute names to their info.
var overridable = map[string]AttributeInfo{
	"patientname":      {Name: "PatientName", Tag: tag.PatientName, Scope: ScopePatient},
	"patientbirthdate": {Name: "PatientBirthDate", Tag: tag.PatientBirthDate, Scope: ScopePatient},
	"patientsex":       {Name: "PatientSex", Tag: tag.PatientSex, Scope: ScopePatient},

	"studydescription":            {Name: "StudyDescription", Tag: tag.StudyDescription, Scope: ScopeStudy},
	"studyid":                     {Name: "StudyID", Tag: tag.StudyID, Scope: ScopeStudy},
	"institutionname":             {Name: "InstitutionName", Tag: tag.InstitutionName, Scope: ScopeStudy},
	"institutionaldepartmentname": {Name: "InstitutionalDepartmentName", Tag: tag.InstitutionalDepartmentName, Scope: ScopeStudy},
	"referringphysicianname":      {Name: "ReferringPhysicianName", Tag: tag.ReferringPhysicianName, Scope: ScopeStudy},
	"operatorsname":               {Name: "OperatorsName", Tag: tag.OperatorsName, Scope: ScopeStudy},
	"stationname":                 {Name: "StationName", Tag: tag.StationName, Scope: ScopeStudy},
	"requestedprocedurepriority":  {Name: "RequestedProcedurePriority", Tag: tag.RequestedProcedurePriority, Scope: ScopeStudy},

	"seriesdescription":     {Name: "SeriesDescription", Tag: tag.SeriesDescription, Scope: ScopeSeries},
	"protocolname":          {Name: "ProtocolName", Tag: tag.ProtocolName, Scope: ScopeSeries},
	"bodypartexamined":      {Name: "BodyPartExamined", Tag: tag.BodyPartExamined, Scope: ScopeSeries},
	"manufacturer":          {Name: "Manufacturer", Tag: tag.Manufacturer, Scope: ScopeSeries},
	"manufacturermodelname": {Name: "ManufacturerModelName", Tag: tag.ManufacturerModelName, Scope: ScopeSeries},
}

// generated lists attributes that carry identifiers or file layout and can
// never be pinned.
var generated = map[string]string{
	"patientid":         "PatientID",
	"accessionnumber":   "AccessionNumber",
	"studyinstanceuid":  "StudyInstanceUID",
	"seriesinstanceuid": "SeriesInstanceUID",
	"sopinstanceuid":    "SOPInstanceUID",
	"sopclassuid":       "SOPClassUID",
	"instancenumber":    "InstanceNumber",
	"modality":          "Modality",
	"rows":              "Rows",
	"columns":           "Columns",
}

// LookupAttribute returns the overridable attribute called name. The lookup
// is case-insensitive; unknown names get a "did you mean" suggestion.
func LookupAttribute(name string) (AttributeInfo, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	if info, ok := overridable[key]; ok {
		return info, nil
	}
	if canonical, ok := generated[key]; ok {
		return AttributeInfo{}, fmt.Errorf("attribute %q is generated and cannot be overridden", canonical)
	}

	if suggestion := closestAttribute(key); suggestion != "" {
		return AttributeInfo{}, fmt.Errorf("unknown attribute %q, did you mean %q?", name, suggestion)
	}
	return AttributeInfo{}, fmt.Errorf("unknown attribute %q", name)
}

// ParseOverrides resolves a name→value map into overrides sorted by name.
func ParseOverrides(values map[string]string) ([]Override, error) {
	out := make([]Override, 0, len(values))
	for name, value := range values {
		info, err := LookupAttribute(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Override{AttributeInfo: info, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// FindOverride returns the value pinned for attribute name, if any.
func FindOverride(overrides []Override, name string) (string, bool) {
	for _, o := range overrides {
		if o.Name == name {
			return o.Value, true
		}
	}
	return "", false
}

// closestAttribute returns the registered name nearest to input, or "" when
// nothing is within an edit distance of 5.
func closestAttribute(input string) string {
	const maxDistance = 5
	bestDistance := maxDistance + 1
	var bestMatch string

	// Sorted keys keep the suggestion stable when two names tie.
	keys := make([]string, 0, len(overridable))
	for k := range overridable {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if d := levenshteinDistance(input, key); d < bestDistance {
			bestDistance = d
			bestMatch = overridable[key].Name
		}
	}
	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

// levenshteinDistance is the minimum number of single-byte insertions,
// deletions or substitutions turning a into b.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
