package modalities

import (
	"testing"

	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/mrsinham/examforge/internal/util"
)

func TestSOPClassUID(t *testing.T) {
	tests := []struct {
		modality Modality
		want     string
	}{
		{CT, "1.2.840.10008.5.1.4.1.1.2"},
		{MR, "1.2.840.10008.5.1.4.1.1.4"},
		{PT, "1.2.840.10008.5.1.4.1.1.128"},
		{NM, "1.2.840.10008.5.1.4.1.1.20"},
		{Modality("ZZ"), SecondaryCaptureSOPClassUID},
		{Modality(""), SecondaryCaptureSOPClassUID},
	}

	for _, tt := range tests {
		t.Run(string(tt.modality), func(t *testing.T) {
			if got := SOPClassUID(tt.modality); got != tt.want {
				t.Errorf("SOPClassUID(%q) = %s, want %s", tt.modality, got, tt.want)
			}
		})
	}
}

func TestAllModalitiesHaveSOPClass(t *testing.T) {
	for _, m := range AllModalities() {
		if SOPClassUID(m) == SecondaryCaptureSOPClassUID {
			t.Errorf("modality %s has no dedicated SOP class", m)
		}
	}
}

func TestParseAndIsValid(t *testing.T) {
	if got := Parse(" ct "); got != CT {
		t.Errorf("Parse(\" ct \") = %q, want CT", got)
	}

	tests := []struct {
		input string
		want  bool
	}{
		{"MR", true},
		{"CT", true},
		{"OT", true},
		{"mr", false},
		{"C T", false},
		{"", false},
		{"ABCDEFGHIJKLMNOPQ", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsValid(tt.input); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestScanners(t *testing.T) {
	for _, m := range []Modality{CT, MR, PT, NM} {
		list := Scanners(m)
		if len(list) == 0 {
			t.Fatalf("expected at least one %s scanner", m)
		}
		for i, s := range list {
			if s.Manufacturer == "" || s.Model == "" {
				t.Errorf("%s scanner %d is incomplete: %+v", m, i, s)
			}
			if m == MR && s.FieldStrength <= 0 {
				t.Errorf("MR scanner %d has invalid field strength: %f", i, s.FieldStrength)
			}
			if m == CT && s.DetectorRows <= 0 {
				t.Errorf("CT scanner %d has invalid detector rows: %d", i, s.DetectorRows)
			}
		}
	}

	seed := int64(1)
	if got := PickScanner(util.NewStream(&seed), Modality("XX")); got != genericScanner {
		t.Errorf("PickScanner(XX) = %+v, want generic scanner", got)
	}
}

func TestAcquisitionAttributes(t *testing.T) {
	seed := int64(42)
	s := util.NewStream(&seed)

	ct := AcquisitionAttributes(s, CT, Scanner{})
	if len(ct) != 3 || ct[0].Tag != tag.KVP {
		t.Fatalf("unexpected CT attributes: %+v", ct)
	}
	validKVP := map[string]bool{"80": true, "100": true, "120": true, "140": true}
	if !validKVP[ct[0].Value[0]] {
		t.Errorf("KVP = %s, want one of 80/100/120/140", ct[0].Value[0])
	}

	mr := AcquisitionAttributes(s, MR, Scanner{FieldStrength: 3})
	if mr[0].Tag != tag.MagneticFieldStrength || mr[0].Value[0] != "3" {
		t.Errorf("MR field strength = %+v, want 3", mr[0])
	}
	for _, a := range mr {
		if len(a.Value) != 1 || len(a.Value[0]) > 16 {
			t.Errorf("attribute %v has invalid value %q", a.Tag, a.Value)
		}
	}

	if got := AcquisitionAttributes(s, NM, Scanner{}); got != nil {
		t.Errorf("NM should have no acquisition attributes, got %+v", got)
	}
}
