package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mrsinham/examforge/internal/dicom"
	"github.com/mrsinham/examforge/internal/dicom/modalities"
	"github.com/mrsinham/examforge/internal/util"
)

// Validate reports the first problem in c, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	_, err := c.Options()
	return err
}

// Options converts c into population options. Every check runs here, before
// anything touches the file system.
func (c *Config) Options() (dicom.PopulationOptions, error) {
	var opts dicom.PopulationOptions

	if strings.TrimSpace(c.OutputRoot) == "" {
		return opts, invalid("output_root is required")
	}
	if c.Organizations < 0 {
		return opts, invalid("organizations must be >= 0, got %d", c.Organizations)
	}

	var err error
	if opts.PatientsPerOrganization, err = c.PatientsPerOrganization.intRange("patients_per_organization", 0); err != nil {
		return opts, err
	}
	if opts.ExamsPerPatient, err = c.ExamsPerPatient.intRange("exams_per_patient", 0); err != nil {
		return opts, err
	}
	if opts.ModalitiesPerExam, err = c.ModalitiesPerExam.intRange("modalities_per_exam", 1); err != nil {
		return opts, err
	}
	if opts.DateRangeYears, err = c.DateRangeYears.intRange("date_range_years", 0); err != nil {
		return opts, err
	}

	if opts.Mix, err = c.examMix(); err != nil {
		return opts, err
	}

	if c.ReferenceDate != "" {
		if opts.ReferenceDate, err = time.Parse(DateLayout, c.ReferenceDate); err != nil {
			return opts, invalid("reference_date %q is not YYYY-MM-DD", c.ReferenceDate)
		}
	}

	if opts.OrgIDs, err = c.OrganizationID.generator(); err != nil {
		return opts, err
	}
	if opts.PatientIDs, err = c.PatientID.generator(); err != nil {
		return opts, err
	}

	if opts.Settings, err = c.settings(); err != nil {
		return opts, err
	}

	if c.Seed != 0 {
		seed := c.Seed
		opts.Seed = &seed
	}
	opts.Organizations = c.Organizations
	opts.Manifest = c.Manifest
	return opts, nil
}

func (c *Config) settings() (dicom.Settings, error) {
	var err error
	s := dicom.Settings{
		OutputRoot:            c.OutputRoot,
		Container:             c.Container,
		DefaultFileCount:      c.DefaultFileCount,
		ExamFolderDescription: c.ExamFolderDescription,
		LabelOverlay:          c.Imaging.LabelOverlay,
		VerifyAccession:       c.VerifyAccession,
	}

	if s.Namer, err = dicom.FileNamerFor(c.Naming); err != nil {
		return s, invalid("naming: %v", err)
	}
	if s.FileCountPolicy, err = dicom.ParseFileCountPolicy(c.FileCountPolicy); err != nil {
		return s, invalid("file_count_policy: %v", err)
	}
	if s.SeriesFolderSuffix, err = dicom.ParseSeriesSuffixPolicy(c.SeriesFolderSuffix); err != nil {
		return s, invalid("series_folder_suffix: %v", err)
	}
	if c.DefaultFileCount < 0 {
		return s, invalid("default_file_count must be >= 1, got %d", c.DefaultFileCount)
	}

	switch cs := strings.TrimSpace(c.Imaging.CharacterSet); cs {
	case "", dicom.UTF8CharacterSet:
		s.CharacterSet = cs
	default:
		return s, invalid("imaging.character_set must be empty or %q, got %q", dicom.UTF8CharacterSet, cs)
	}

	s.Imaging = modalities.Imaging{
		Rows:          c.Imaging.Rows,
		Cols:          c.Imaging.Cols,
		BitsAllocated: c.Imaging.BitsAllocated,
		BitsStored:    c.Imaging.BitsStored,
		Photometric:   c.Imaging.Photometric,
	}
	global := modalities.ResolveImaging(modalities.DefaultImaging, s.Imaging)
	if err := global.Validate(); err != nil {
		return s, invalid("imaging: %v", err)
	}

	if s.Profiles, err = c.profiles(global); err != nil {
		return s, err
	}

	if s.Overrides, err = util.ParseOverrides(c.Overrides); err != nil {
		return s, invalid("overrides: %v", err)
	}
	return s, nil
}

// profiles converts the configured profiles. Keys are upper-cased since
// viper lower-cases map keys.
func (c *Config) profiles(global modalities.Imaging) (map[modalities.Modality]modalities.Profile, error) {
	if len(c.Profiles) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[modalities.Modality]modalities.Profile, len(c.Profiles))
	for _, name := range names {
		pc := c.Profiles[name]
		m := modalities.Parse(name)
		if !modalities.IsValid(string(m)) {
			return nil, invalid("profiles: invalid modality %q", name)
		}

		p := modalities.Profile{
			StudyDescriptions:  pc.StudyDescriptions,
			SeriesDescriptions: pc.SeriesDescriptions,
			StandardFileCounts: pc.StandardFileCounts,
			BodyParts:          pc.BodyParts,
			Imaging: modalities.Imaging{
				Rows:          pc.Rows,
				Cols:          pc.Cols,
				BitsAllocated: pc.BitsAllocated,
				BitsStored:    pc.BitsStored,
				Photometric:   pc.Photometric,
			},
		}
		if pc.SeriesPerStudy != (Range{}) {
			r, err := pc.SeriesPerStudy.intRange("profiles."+string(m)+".series_per_study", 1)
			if err != nil {
				return nil, err
			}
			p.SeriesPerStudy = r
		}
		for _, n := range pc.StandardFileCounts {
			if n < 1 {
				return nil, invalid("profiles.%s.standard_file_counts: counts must be >= 1, got %d", m, n)
			}
		}

		resolved := modalities.ResolveProfile(map[modalities.Modality]modalities.Profile{m: p}, m)
		if err := modalities.ResolveImaging(global, resolved.Imaging).Validate(); err != nil {
			return nil, invalid("profiles.%s: %v", m, err)
		}
		out[m] = p
	}
	return out, nil
}

func (c *Config) examMix() (*dicom.ExamMix, error) {
	var pool []modalities.Modality
	for _, name := range c.ModalityPool {
		m := modalities.Parse(name)
		if !modalities.IsValid(string(m)) {
			return nil, invalid("modality_pool: invalid modality %q", name)
		}
		pool = append(pool, m)
	}
	if len(pool) == 0 {
		return nil, invalid("modality_pool must not be empty")
	}

	pairA, err := c.ExamMix.PairA.pair("exam_mix.pair_a")
	if err != nil {
		return nil, err
	}
	pairB, err := c.ExamMix.PairB.pair("exam_mix.pair_b")
	if err != nil {
		return nil, err
	}

	mix, err := dicom.NewExamMix(pool, pairA, pairB, c.ExamMix.PairA.Weight, c.ExamMix.PairB.Weight, c.ExamMix.MixedWeight)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return mix, nil
}

func (p PairConfig) pair(key string) (dicom.ModalityPair, error) {
	var pair dicom.ModalityPair
	if len(p.Modalities) != 2 {
		return pair, invalid("%s.modalities must list exactly 2 modalities, got %d", key, len(p.Modalities))
	}
	for i, name := range p.Modalities {
		m := modalities.Parse(name)
		if !modalities.IsValid(string(m)) {
			return pair, invalid("%s.modalities: invalid modality %q", key, name)
		}
		pair[i] = m
	}
	if p.Weight < 0 {
		return pair, invalid("%s.weight must be >= 0, got %d", key, p.Weight)
	}
	return pair, nil
}

func (r Range) intRange(key string, floor int) (util.IntRange, error) {
	out, err := util.NewIntRange(r.Min, r.Max)
	if err != nil {
		return out, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, key, err)
	}
	if out.Min < floor {
		return out, fmt.Errorf("%w: %s: min must be >= %d, got %d", ErrInvalidConfig, key, floor, out.Min)
	}
	return out, nil
}

func (o OrgIDConfig) generator() (util.OrgIDGenerator, error) {
	if err := checkAlphabet("organization_id.alphabet", o.Alphabet); err != nil {
		return util.OrgIDGenerator{}, err
	}
	if o.Length < 0 {
		return util.OrgIDGenerator{}, invalid("organization_id.length must be >= 1, got %d", o.Length)
	}
	return util.OrgIDGenerator{Alphabet: o.Alphabet, Length: o.Length}, nil
}

func (p PatientIDConfig) generator() (util.PatientIDGenerator, error) {
	var g util.PatientIDGenerator
	if err := checkAlphabet("patient_id.initials_alphabet", p.InitialsAlphabet); err != nil {
		return g, err
	}
	if err := checkAlphabet("patient_id.code_alphabet", p.CodeAlphabet); err != nil {
		return g, err
	}
	if p.InitialsLength < 0 || p.CodeLength < 0 {
		return g, invalid("patient_id lengths must be >= 1")
	}
	if p.NumberWidth < 0 || p.NumberWidth > 18 {
		return g, invalid("patient_id.number_width must be in [1, 18], got %d", p.NumberWidth)
	}
	if strings.ContainsAny(p.Separator, `<>:"/\|?*`) {
		return g, invalid("patient_id.separator %q contains a character not allowed in paths", p.Separator)
	}
	return util.PatientIDGenerator{
		InitialsAlphabet: p.InitialsAlphabet,
		InitialsLength:   p.InitialsLength,
		CodeAlphabet:     p.CodeAlphabet,
		CodeLength:       p.CodeLength,
		NumberWidth:      p.NumberWidth,
		Separator:        p.Separator,
	}.WithDefaults(), nil
}

// checkAlphabet rejects alphabets that would produce identifiers outside
// printable ASCII. An empty alphabet means the default.
func checkAlphabet(key, alphabet string) error {
	seen := map[rune]bool{}
	for _, r := range alphabet {
		if r <= ' ' || r > '~' {
			return invalid("%s must be printable ASCII, got %q", key, alphabet)
		}
		if seen[r] {
			return invalid("%s has duplicate character %q", key, r)
		}
		seen[r] = true
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
