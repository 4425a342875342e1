package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. EXAMFORGE_SEED or
// EXAMFORGE_IMAGING_ROWS.
const EnvPrefix = "EXAMFORGE"

// FlagKeys maps command-line flag names to configuration keys.
var FlagKeys = map[string]string{
	"seed":          "seed",
	"output":        "output_root",
	"organizations": "organizations",
	"naming":        "naming",
}

// Load reads the configuration. Values are taken, highest precedence first,
// from changed flags, EXAMFORGE_* environment variables, the file at path
// (any format viper understands) and Defaults. An empty path skips the file.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range FlagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag --%s: %w", name, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key of d so that environment variables are
// picked up for nested keys too.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("output_root", d.OutputRoot)
	v.SetDefault("container", d.Container)
	v.SetDefault("seed", d.Seed)

	v.SetDefault("organizations", d.Organizations)
	setRange(v, "patients_per_organization", d.PatientsPerOrganization)
	setRange(v, "exams_per_patient", d.ExamsPerPatient)
	setRange(v, "modalities_per_exam", d.ModalitiesPerExam)

	v.SetDefault("modality_pool", d.ModalityPool)
	v.SetDefault("exam_mix.pair_a.modalities", d.ExamMix.PairA.Modalities)
	v.SetDefault("exam_mix.pair_a.weight", d.ExamMix.PairA.Weight)
	v.SetDefault("exam_mix.pair_b.modalities", d.ExamMix.PairB.Modalities)
	v.SetDefault("exam_mix.pair_b.weight", d.ExamMix.PairB.Weight)
	v.SetDefault("exam_mix.mixed_weight", d.ExamMix.MixedWeight)
	setRange(v, "date_range_years", d.DateRangeYears)
	v.SetDefault("reference_date", d.ReferenceDate)

	v.SetDefault("organization_id.alphabet", d.OrganizationID.Alphabet)
	v.SetDefault("organization_id.length", d.OrganizationID.Length)
	v.SetDefault("patient_id.initials_alphabet", d.PatientID.InitialsAlphabet)
	v.SetDefault("patient_id.initials_length", d.PatientID.InitialsLength)
	v.SetDefault("patient_id.code_alphabet", d.PatientID.CodeAlphabet)
	v.SetDefault("patient_id.code_length", d.PatientID.CodeLength)
	v.SetDefault("patient_id.number_width", d.PatientID.NumberWidth)
	v.SetDefault("patient_id.separator", d.PatientID.Separator)

	v.SetDefault("imaging.rows", d.Imaging.Rows)
	v.SetDefault("imaging.cols", d.Imaging.Cols)
	v.SetDefault("imaging.bits_allocated", d.Imaging.BitsAllocated)
	v.SetDefault("imaging.bits_stored", d.Imaging.BitsStored)
	v.SetDefault("imaging.photometric", d.Imaging.Photometric)
	v.SetDefault("imaging.character_set", d.Imaging.CharacterSet)
	v.SetDefault("imaging.label_overlay", d.Imaging.LabelOverlay)

	v.SetDefault("naming", d.Naming)
	v.SetDefault("file_count_policy", d.FileCountPolicy)
	v.SetDefault("default_file_count", d.DefaultFileCount)
	v.SetDefault("exam_folder_description", d.ExamFolderDescription)
	v.SetDefault("series_folder_suffix", d.SeriesFolderSuffix)
	v.SetDefault("verify_accession", d.VerifyAccession)
	v.SetDefault("manifest", d.Manifest)
}

func setRange(v *viper.Viper, key string, r Range) {
	v.SetDefault(key+".min", r.Min)
	v.SetDefault(key+".max", r.Max)
}
