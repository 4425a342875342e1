package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/mrsinham/examforge/internal/config"
	"github.com/mrsinham/examforge/internal/dicom"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("63")).
		MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("244")).
		Width(22)

	valueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	boxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 2)
)

type row struct {
	label string
	value string
}

func renderRows(title string, rows []row) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, titleStyle.Render(title))
	for _, r := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render(r.label),
			valueStyle.Render(r.value),
		))
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)) + "\n"
}

// renderSummary formats the metrics of a finished run.
func renderSummary(m *dicom.Metrics, outputRoot string) string {
	rows := []row{
		{"Output", outputRoot},
		{"Seed", fmt.Sprint(m.Seed)},
		{"Organizations", humanize.Comma(int64(m.Organizations))},
		{"Patients", humanize.Comma(int64(m.Patients))},
		{"Exams", humanize.Comma(int64(m.Exams))},
		{"Studies", humanize.Comma(int64(m.Studies))},
		{"Series", humanize.Comma(int64(m.Series))},
		{"Files", humanize.Comma(int64(m.Files))},
		{"Size", humanize.Bytes(uint64(m.Bytes))},
		{"Exam mix", formatCounts(m.ExamsByBucket)},
		{"Studies by modality", formatCounts(m.StudiesByModality)},
		{"Elapsed", m.Duration.Round(time.Millisecond).String()},
	}
	if m.ManifestPath != "" {
		rows = append(rows, row{"Manifest", m.ManifestPath})
	}
	return renderRows("Generation complete", rows)
}

// renderConfig formats the resolved configuration for `validate`.
func renderConfig(cfg *config.Config) string {
	seed := "random"
	if cfg.Seed != 0 {
		seed = fmt.Sprint(cfg.Seed)
	}
	charset := "default (ASCII names)"
	if cfg.Imaging.CharacterSet != "" {
		charset = cfg.Imaging.CharacterSet
	}

	rows := []row{
		{"Output", cfg.OutputRoot + "/" + cfg.Container},
		{"Seed", seed},
		{"Organizations", fmt.Sprint(cfg.Organizations)},
		{"Patients / org", formatRange(cfg.PatientsPerOrganization)},
		{"Exams / patient", formatRange(cfg.ExamsPerPatient)},
		{"Modalities / exam", formatRange(cfg.ModalitiesPerExam)},
		{"Modality pool", strings.Join(cfg.ModalityPool, ", ")},
		{"Exam mix", fmt.Sprintf("%s %d / %s %d / mixed %d",
			strings.Join(cfg.ExamMix.PairA.Modalities, "+"), cfg.ExamMix.PairA.Weight,
			strings.Join(cfg.ExamMix.PairB.Modalities, "+"), cfg.ExamMix.PairB.Weight,
			cfg.ExamMix.MixedWeight)},
		{"Images", fmt.Sprintf("%dx%d %s, %d/%d bits",
			cfg.Imaging.Rows, cfg.Imaging.Cols, cfg.Imaging.Photometric,
			cfg.Imaging.BitsStored, cfg.Imaging.BitsAllocated)},
		{"Character set", charset},
		{"File names", cfg.Naming},
		{"File counts", cfg.FileCountPolicy},
	}
	if len(cfg.Profiles) > 0 {
		names := make([]string, 0, len(cfg.Profiles))
		for name := range cfg.Profiles {
			names = append(names, strings.ToUpper(name))
		}
		sort.Strings(names)
		rows = append(rows, row{"Profiles", strings.Join(names, ", ")})
	}
	if len(cfg.Overrides) > 0 {
		rows = append(rows, row{"Overrides", fmt.Sprint(len(cfg.Overrides))})
	}
	return renderRows("Configuration is valid", rows)
}

func formatRange(r config.Range) string {
	if r.Min == r.Max {
		return fmt.Sprint(r.Min)
	}
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", k, counts[k]))
	}
	return strings.Join(parts, ", ")
}
