package model

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-mod-1.2.3.jar", "normal-mod-1.2.3.jar"},
		{"mod:with:colons.jar", "mod_with_colons.jar"},
		{"mod<with>brackets.jar", "mod_with_brackets.jar"},
		{"mod|with|pipes.jar", "mod_with_pipes.jar"},
		{"mod?with*wildcards.jar", "mod_with_wildcards.jar"},
		{"mod\"with\"quotes.jar", "mod_with_quotes.jar"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces.jar", "multiple spaces.jar"},
		{"trailing spaces   ", "trailing spaces"},
		{"nested/path/mod.jar", "mod.jar"},
		{"..\\..\\evil.jar", "evil.jar"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestReport_Total(t *testing.T) {
	report := &InstallationReport{
		Blocked: []BlockedMod{
			{Reference: ModReference{ProjectID: 1, FileID: 10}, Reason: BlockedNoDownloadURL},
		},
		Succeeded: []DownloadOutcome{
			{ResolvedFile: ResolvedFile{Reference: ModReference{ProjectID: 2, FileID: 20}}, Status: StatusSucceeded},
			{ResolvedFile: ResolvedFile{Reference: ModReference{ProjectID: 3, FileID: 30}}, Status: StatusSucceeded},
		},
		Failed: []DownloadOutcome{
			{ResolvedFile: ResolvedFile{Reference: ModReference{ProjectID: 4, FileID: 40}}, Status: StatusFailed},
		},
	}

	if got := report.Total(); got != 4 {
		t.Errorf("Total() = %d, want 4", got)
	}
}

func TestReport_Classify(t *testing.T) {
	required := ModReference{ProjectID: 1, FileID: 1, Required: true}
	optional := ModReference{ProjectID: 2, FileID: 2, Required: false}

	tests := []struct {
		name           string
		report         *InstallationReport
		failOnOptional bool
		want           RunClass
	}{
		{
			name: "all succeeded",
			report: &InstallationReport{
				Succeeded: []DownloadOutcome{{ResolvedFile: ResolvedFile{Reference: required}}},
			},
			want: RunFullSuccess,
		},
		{
			name:   "empty manifest",
			report: &InstallationReport{},
			want:   RunFullSuccess,
		},
		{
			name: "required blocked with one success",
			report: &InstallationReport{
				Blocked:   []BlockedMod{{Reference: required, Reason: BlockedNoDownloadURL}},
				Succeeded: []DownloadOutcome{{ResolvedFile: ResolvedFile{Reference: optional}}},
			},
			want: RunPartialSuccess,
		},
		{
			name: "required failed, nothing succeeded",
			report: &InstallationReport{
				Failed: []DownloadOutcome{{ResolvedFile: ResolvedFile{Reference: required}, Status: StatusFailed}},
			},
			want: RunTotalFailure,
		},
		{
			name: "optional blocked is tolerated by default",
			report: &InstallationReport{
				Blocked:   []BlockedMod{{Reference: optional, Reason: BlockedNoDownloadURL}},
				Succeeded: []DownloadOutcome{{ResolvedFile: ResolvedFile{Reference: required}}},
			},
			want: RunFullSuccess,
		},
		{
			name: "optional blocked counts when failOnOptional",
			report: &InstallationReport{
				Blocked:   []BlockedMod{{Reference: optional, Reason: BlockedNoDownloadURL}},
				Succeeded: []DownloadOutcome{{ResolvedFile: ResolvedFile{Reference: required}}},
			},
			failOnOptional: true,
			want:           RunPartialSuccess,
		},
		{
			name: "only optional failures, nothing succeeded",
			report: &InstallationReport{
				Blocked: []BlockedMod{{Reference: optional, Reason: BlockedNotFound}},
			},
			want: RunFullSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.report.Classify(tt.failOnOptional)
			if got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.failOnOptional, got, tt.want)
			}
		})
	}
}

func TestReport_SortByManifest(t *testing.T) {
	ref := func(i int) ModReference { return ModReference{ProjectID: i, FileID: i, ManifestIndex: i} }

	report := &InstallationReport{
		Blocked: []BlockedMod{
			{Reference: ref(5)},
			{Reference: ref(1)},
		},
		Succeeded: []DownloadOutcome{
			{ResolvedFile: ResolvedFile{Reference: ref(4)}},
			{ResolvedFile: ResolvedFile{Reference: ref(0)}},
			{ResolvedFile: ResolvedFile{Reference: ref(2)}},
		},
		Failed: []DownloadOutcome{
			{ResolvedFile: ResolvedFile{Reference: ref(6)}},
			{ResolvedFile: ResolvedFile{Reference: ref(3)}},
		},
	}

	report.SortByManifest()

	if report.Blocked[0].Reference.ManifestIndex != 1 {
		t.Errorf("Blocked not sorted: got index %d first", report.Blocked[0].Reference.ManifestIndex)
	}
	for i := 1; i < len(report.Succeeded); i++ {
		if report.Succeeded[i-1].ResolvedFile.Reference.ManifestIndex > report.Succeeded[i].ResolvedFile.Reference.ManifestIndex {
			t.Error("Succeeded not sorted by manifest index")
		}
	}
	if report.Failed[0].ResolvedFile.Reference.ManifestIndex != 3 {
		t.Errorf("Failed not sorted: got index %d first", report.Failed[0].ResolvedFile.Reference.ManifestIndex)
	}
}

func TestDownloadOutcome_Skipped(t *testing.T) {
	skipped := DownloadOutcome{Status: StatusSucceeded, Attempts: 0}
	if !skipped.Skipped() {
		t.Error("zero-attempt success should report Skipped")
	}

	downloaded := DownloadOutcome{Status: StatusSucceeded, Attempts: 1}
	if downloaded.Skipped() {
		t.Error("one-attempt success should not report Skipped")
	}

	failed := DownloadOutcome{Status: StatusFailed, Attempts: 0}
	if failed.Skipped() {
		t.Error("failure should never report Skipped")
	}
}
