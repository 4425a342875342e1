package dicom

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsinham/examforge/internal/util"
)

func TestFileNamers(t *testing.T) {
	assert.Equal(t, "2.25.42_Instance_00007.dcm", UIDFileNamer("2.25.42", 7))
	assert.Equal(t, "IM00007.dcm", SimpleFileNamer("2.25.42", 7))

	namer, err := FileNamerFor("SIMPLE")
	require.NoError(t, err)
	assert.Equal(t, "IM00001.dcm", namer("x", 1))

	namer, err = FileNamerFor("")
	require.NoError(t, err)
	assert.Equal(t, "u_Instance_00001.dcm", namer("u", 1))

	_, err = FileNamerFor("dicomdir")
	assert.Error(t, err)
}

func TestExamFolderName(t *testing.T) {
	when := time.Date(2023, 11, 5, 8, 30, 9, 0, time.UTC)

	assert.Equal(t, "20231105_083009", ExamFolderName(when, "CT Chest", false))
	assert.Equal(t, "20231105_083009_CT_Chest", ExamFolderName(when, "CT Chest", true))
	assert.Equal(t, "20231105_083009", ExamFolderName(when, "  ", true))
}

func TestSeriesFolderName(t *testing.T) {
	uid := "2.25.123456789"

	assert.Equal(t, "CT_Axial_5mm", SeriesFolderName("CT", "Axial 5mm", 1, uid, false))
	assert.Equal(t, "CT_Axial_5mm_S02_456789", SeriesFolderName("CT", "Axial 5mm", 2, uid, true))
	assert.Equal(t, "MR_T2_FLAIR_S01_2.25.1", SeriesFolderName("MR", "T2/FLAIR", 1, "2.25.1", true))

	long := SeriesFolderName("CT", strings.Repeat("x", 300), 3, uid, true)
	assert.LessOrEqual(t, utf8.RuneCountInString(long), util.DefaultMaxSegmentLength)
	assert.True(t, strings.HasSuffix(long, "_S03_456789"), long)
	assert.Equal(t, long, util.SanitizePath(long), "suffixed names are already sanitized")
}

func TestDuplicateSeriesNames(t *testing.T) {
	dup := duplicateSeriesNames("CT", []string{"Axial", "Coronal", "Axial", "Axial "})
	assert.Equal(t, []bool{true, false, true, true}, dup)

	assert.Equal(t, []bool{false}, duplicateSeriesNames("CT", []string{"Axial"}))
}

func TestParseSeriesSuffixPolicy(t *testing.T) {
	p, err := ParseSeriesSuffixPolicy("")
	require.NoError(t, err)
	assert.Equal(t, SuffixAuto, p)

	p, err = ParseSeriesSuffixPolicy("ALWAYS")
	require.NoError(t, err)
	assert.Equal(t, SuffixAlways, p)

	_, err = ParseSeriesSuffixPolicy("never")
	assert.Error(t, err)
}
