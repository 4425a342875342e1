package dicom

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/mrsinham/examforge/internal/dicom/modalities"
	"github.com/mrsinham/examforge/internal/util"
)

// featureContext holds state for a single scenario
type featureContext struct {
	root     string
	settings Settings
	seed     int64
	result   *StudyResult
	err      error
	runs     [2][]GeneratedFile
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	fc := &featureContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "examforge-feature-*")
		if err != nil {
			return ctx, err
		}
		*fc = featureContext{root: dir}
		fc.settings = Settings{OutputRoot: filepath.Join(dir, "out")}
		return ctx, nil
	})

	sc.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if fc.root != "" {
			_ = os.RemoveAll(fc.root)
		}
		return ctx, nil
	})

	sc.Step(`^an empty output directory$`, fc.anEmptyOutputDirectory)
	sc.Step(`^global imaging of (\d+)x(\d+) pixels$`, fc.globalImaging)
	sc.Step(`^a "([^"]*)" profile with (\d+) series and standard file counts "([^"]*)"$`, fc.aProfile)
	sc.Step(`^seed (-?\d+)$`, fc.seedIs)
	sc.Step(`^the "([^"]*)" naming policy$`, fc.theNamingPolicy)
	sc.Step(`^I generate a "([^"]*)" study for organization "([^"]*)" and patient "([^"]*)"$`, fc.iGenerateAStudy)
	sc.Step(`^I generate a population of (\d+) organizations twice$`, fc.iGenerateAPopulationTwice)
	sc.Step(`^generation should succeed$`, fc.generationShouldSucceed)
	sc.Step(`^generation should fail with a missing argument error mentioning "([^"]*)"$`, fc.generationShouldFail)
	sc.Step(`^the study should have (\d+) series$`, fc.theStudyShouldHaveSeries)
	sc.Step(`^the study should contain (\d+) files$`, fc.theStudyShouldContainFiles)
	sc.Step(`^instance numbers should run from (\d+) to (\d+)$`, fc.instanceNumbersShouldRun)
	sc.Step(`^every file name should embed its instance number$`, fc.everyFileNameShouldEmbedItsInstanceNumber)
	sc.Step(`^every file should carry the study accession$`, fc.everyFileShouldCarryTheAccession)
	sc.Step(`^the file names should be "([^"]*)"$`, fc.theFileNamesShouldBe)
	sc.Step(`^the output directory should be empty$`, fc.theOutputDirectoryShouldBeEmpty)
	sc.Step(`^both runs should produce the same files$`, fc.bothRunsShouldProduceTheSameFiles)
}

func (fc *featureContext) anEmptyOutputDirectory() error {
	entries, err := os.ReadDir(fc.root)
	if err != nil {
		return err
	}
	if len(entries) != 0 {
		return fmt.Errorf("expected %s to be empty", fc.root)
	}
	return nil
}

func (fc *featureContext) globalImaging(rows, cols int) error {
	fc.settings.Imaging = modalities.Imaging{Rows: rows, Cols: cols}
	return nil
}

func (fc *featureContext) aProfile(modality string, series int, counts string) error {
	var fileCounts []int
	for _, c := range strings.Split(counts, ",") {
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(c), "%d", &n); err != nil {
			return fmt.Errorf("invalid file count %q: %w", c, err)
		}
		fileCounts = append(fileCounts, n)
	}
	if fc.settings.Profiles == nil {
		fc.settings.Profiles = map[modalities.Modality]modalities.Profile{}
	}
	fc.settings.Profiles[modalities.Parse(modality)] = modalities.Profile{
		SeriesPerStudy:     util.Fixed(series),
		StandardFileCounts: fileCounts,
	}
	return nil
}

func (fc *featureContext) seedIs(seed int64) error {
	fc.seed = seed
	return nil
}

func (fc *featureContext) theNamingPolicy(policy string) error {
	namer, err := FileNamerFor(policy)
	if err != nil {
		return err
	}
	fc.settings.Namer = namer
	return nil
}

func (fc *featureContext) iGenerateAStudy(modality, organization, patient string) error {
	gen := NewStudyGenerator(util.NewStream(&fc.seed), fc.settings, nil, nil)
	fc.result, fc.err = gen.Generate(StudyRequest{
		Organization: organization,
		Patient:      Patient{ID: patient, Name: "DOE^John", Sex: "M"},
		Modality:     modalities.Parse(modality),
	})
	return nil
}

func (fc *featureContext) iGenerateAPopulationTwice(organizations int) error {
	for i := range fc.runs {
		settings := fc.settings
		settings.OutputRoot = filepath.Join(fc.root, fmt.Sprintf("run%d", i))
		seed := fc.seed
		m, err := GeneratePopulation(PopulationOptions{
			Settings:                settings,
			Seed:                    &seed,
			Organizations:           organizations,
			PatientsPerOrganization: util.IntRange{Min: 1, Max: 2},
			ExamsPerPatient:         util.IntRange{Min: 1, Max: 2},
			ModalitiesPerExam:       util.IntRange{Min: 1, Max: 2},
			DateRangeYears:          util.IntRange{Min: 0, Max: 3},
			Manifest:                true,
		})
		if err != nil {
			return err
		}
		if fc.runs[i], err = ReadManifest(m.ManifestPath); err != nil {
			return err
		}
	}
	return nil
}

func (fc *featureContext) generationShouldSucceed() error {
	if fc.err != nil {
		return fmt.Errorf("generation failed: %w", fc.err)
	}
	return nil
}

func (fc *featureContext) generationShouldFail(argument string) error {
	if !errors.Is(fc.err, ErrMissingArgument) {
		return fmt.Errorf("expected a missing argument error, got %v", fc.err)
	}
	if !strings.Contains(fc.err.Error(), argument) {
		return fmt.Errorf("error %q does not mention %q", fc.err, argument)
	}
	return nil
}

func (fc *featureContext) theStudyShouldHaveSeries(n int) error {
	if fc.result.SeriesCount != n {
		return fmt.Errorf("expected %d series, got %d", n, fc.result.SeriesCount)
	}
	return nil
}

func (fc *featureContext) theStudyShouldContainFiles(n int) error {
	if got := fc.result.FileCount(); got != n {
		return fmt.Errorf("expected %d files, got %d", n, got)
	}
	for _, f := range fc.result.Files {
		if _, err := os.Stat(f.Path); err != nil {
			return err
		}
	}
	return nil
}

func (fc *featureContext) instanceNumbersShouldRun(from, to int) error {
	want := from
	for _, f := range fc.result.Files {
		if f.InstanceNumber != want {
			return fmt.Errorf("expected instance number %d, got %d", want, f.InstanceNumber)
		}
		want++
	}
	if want-1 != to {
		return fmt.Errorf("instance numbers end at %d, want %d", want-1, to)
	}
	return nil
}

func (fc *featureContext) everyFileNameShouldEmbedItsInstanceNumber() error {
	for _, f := range fc.result.Files {
		want := fmt.Sprintf("%s_Instance_%05d.dcm", f.SOPInstanceUID, f.InstanceNumber)
		if filepath.Base(f.Path) != want {
			return fmt.Errorf("file %s, want %s", filepath.Base(f.Path), want)
		}
	}
	return nil
}

func (fc *featureContext) everyFileShouldCarryTheAccession() error {
	want := fc.result.Files[0].Accession
	if len(want) != util.AccessionLength {
		return fmt.Errorf("accession %q is not %d characters", want, util.AccessionLength)
	}
	for _, f := range fc.result.Files {
		got, err := ReadAccession(f.Path)
		if err != nil {
			return err
		}
		if got != want {
			return fmt.Errorf("%s: accession %q, want %q", f.Path, got, want)
		}
	}
	return nil
}

func (fc *featureContext) theFileNamesShouldBe(list string) error {
	want := strings.Split(list, ",")
	if len(want) != len(fc.result.Files) {
		return fmt.Errorf("expected %d files, got %d", len(want), len(fc.result.Files))
	}
	for i, f := range fc.result.Files {
		if filepath.Base(f.Path) != want[i] {
			return fmt.Errorf("file %d is %s, want %s", i, filepath.Base(f.Path), want[i])
		}
	}
	return nil
}

func (fc *featureContext) theOutputDirectoryShouldBeEmpty() error {
	if _, err := os.Stat(fc.settings.OutputRoot); !os.IsNotExist(err) {
		return fmt.Errorf("output root %s should not exist", fc.settings.OutputRoot)
	}
	return nil
}

func (fc *featureContext) bothRunsShouldProduceTheSameFiles() error {
	a, b := fc.runs[0], fc.runs[1]
	if len(a) == 0 || len(a) != len(b) {
		return fmt.Errorf("runs produced %d and %d files", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			return fmt.Errorf("entry %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
	return nil
}
