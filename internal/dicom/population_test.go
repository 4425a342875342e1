package dicom

import (
	"io/fs"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsinham/examforge/internal/dicom/modalities"
	"github.com/mrsinham/examforge/internal/util"
)

func smallPopulation(root string, seed int64) PopulationOptions {
	return PopulationOptions{
		Settings: Settings{
			OutputRoot: root,
			Imaging:    modalities.Imaging{Rows: 8, Cols: 8},
			Profiles: map[modalities.Modality]modalities.Profile{
				modalities.CT: {StandardFileCounts: []int{3, 5}},
				modalities.MR: {StandardFileCounts: []int{4}},
				modalities.PT: {StandardFileCounts: []int{2}},
				modalities.NM: {StandardFileCounts: []int{2}},
			},
		},
		Seed:                    &seed,
		Organizations:           2,
		PatientsPerOrganization: util.IntRange{Min: 1, Max: 3},
		ExamsPerPatient:         util.IntRange{Min: 1, Max: 2},
		ModalitiesPerExam:       util.IntRange{Min: 1, Max: 2},
		DateRangeYears:          util.IntRange{Min: 0, Max: 5},
		PatientIDs:              util.PatientIDGenerator{Separator: "-"},
		Manifest:                true,
	}
}

func relativeFiles(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			out = append(out, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	sort.Strings(out)
	return out
}

func TestGeneratePopulation_Deterministic(t *testing.T) {
	rootA, rootB := t.TempDir(), t.TempDir()

	ma, err := GeneratePopulation(smallPopulation(rootA, 42))
	require.NoError(t, err)
	mb, err := GeneratePopulation(smallPopulation(rootB, 42))
	require.NoError(t, err)

	assert.Equal(t, relativeFiles(t, rootA), relativeFiles(t, rootB))

	entriesA, err := ReadManifest(ma.ManifestPath)
	require.NoError(t, err)
	entriesB, err := ReadManifest(mb.ManifestPath)
	require.NoError(t, err)
	assert.Equal(t, entriesA, entriesB)
	assert.Equal(t, ma.Files, len(entriesA))
	assert.Equal(t, ma.Bytes, mb.Bytes)

	mc, err := GeneratePopulation(smallPopulation(t.TempDir(), 43))
	require.NoError(t, err)
	entriesC, err := ReadManifest(mc.ManifestPath)
	require.NoError(t, err)
	assert.NotEqual(t, entriesA, entriesC)
}

func TestGeneratePopulation_Invariants(t *testing.T) {
	root := t.TempDir()
	opts := smallPopulation(root, 7)
	opts.Organizations = 3
	opts.Writer = newMemoryWriter()

	var progress []Progress
	opts.Progress = func(p Progress) { progress = append(progress, p) }

	m, err := GeneratePopulation(opts)
	require.NoError(t, err)
	entries, err := ReadManifest(m.ManifestPath)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	assert.Equal(t, int64(7), m.Seed)
	assert.Equal(t, 3, m.Organizations)
	assert.Len(t, progress, m.Exams)
	assert.Equal(t, m.Files, progress[len(progress)-1].Files)
	assert.Equal(t, m.Files, len(entries))

	bucketTotal := 0
	for _, n := range m.ExamsByBucket {
		bucketTotal += n
	}
	assert.Equal(t, m.Exams, bucketTotal)
	modalityTotal := 0
	for _, n := range m.StudiesByModality {
		modalityTotal += n
	}
	assert.Equal(t, m.Studies, modalityTotal)

	uids := map[string]string{}
	claim := func(uid, kind string) {
		if prev, ok := uids[uid]; ok {
			require.Equal(t, kind, prev, "uid %s reused across levels", uid)
			return
		}
		uids[uid] = kind
	}
	sops := map[string]bool{}
	studyAccession := map[string]string{}
	seriesNumbers := map[string][]int{}
	for _, e := range entries {
		require.False(t, sops[e.SOPInstanceUID], "duplicate SOP instance uid %s", e.SOPInstanceUID)
		sops[e.SOPInstanceUID] = true
		claim(e.SOPInstanceUID, "instance")
		claim(e.SeriesUID, "series")
		claim(e.StudyUID, "study")

		require.Len(t, e.Accession, util.AccessionLength)
		if acc, ok := studyAccession[e.StudyUID]; ok {
			require.Equal(t, acc, e.Accession)
		}
		studyAccession[e.StudyUID] = e.Accession
		seriesNumbers[e.SeriesUID] = append(seriesNumbers[e.SeriesUID], e.InstanceNumber)
	}

	for uid, numbers := range seriesNumbers {
		for i, n := range numbers {
			require.Equal(t, i+1, n, "series %s instance numbers %v", uid, numbers)
		}
	}
}

func TestGeneratePopulation_MissingOutputRoot(t *testing.T) {
	seed := int64(1)
	_, err := GeneratePopulation(PopulationOptions{Seed: &seed, Organizations: 1})
	require.ErrorIs(t, err, ErrMissingArgument)
}

func TestGeneratePopulation_NegativeOrganizations(t *testing.T) {
	opts := smallPopulation(t.TempDir(), 1)
	opts.Organizations = -1
	_, err := GeneratePopulation(opts)
	require.ErrorIs(t, err, util.ErrInvalidRange)
}

func TestNewPatient_BaseDateWithinRange(t *testing.T) {
	s := testStream(3)
	opts := smallPopulation("", 3)

	for i := 0; i < 200; i++ {
		p := newPatient(s, "ORG1", DefaultReferenceDate, opts, true)
		assert.False(t, p.BaseDate.After(DefaultReferenceDate))
		assert.True(t, p.BaseDate.After(DefaultReferenceDate.AddDate(-7, 0, 0)))
		assert.True(t, p.BirthDate.Before(p.BaseDate.AddDate(-18, 0, 0).AddDate(0, 0, 1)))
		assert.Regexp(t, `^ORG1-[A-Z]{2}-[A-Z0-9]{4}-\d{6}$`, p.ID)

		at := examTime(s, p.BaseDate)
		assert.False(t, at.Before(p.BaseDate))
		assert.True(t, at.Before(p.BaseDate.AddDate(1, 0, 1)))
	}
}
