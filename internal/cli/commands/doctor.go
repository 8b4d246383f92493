package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spf13/cobra"

	"github.com/hazardlab/nrigen/internal/cli/output"
	"github.com/hazardlab/nrigen/internal/dictionary"
	"github.com/hazardlab/nrigen/pkg/statvar"
)

// maxCheckDetails caps the detail lines shown per check in text mode.
const maxCheckDetails = 5

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run a health check on the data dictionary",
		Long: `Analyze the configured data dictionary without writing artifacts.

The doctor command reports:
- Whether the input file exists and parses
- Row counts: loaded, retained, and skipped
- Field aliases that would fail extraction
- Alias labels missing from the naming table (passed through verbatim)

Output adapts to environment:
  - Terminal: styled report
  - Piped/Scripted: Markdown report
  - JSON: machine-readable report`,
		Example: `  # Check the default dictionary
  nrigen doctor

  # Check a specific file under the legacy naming convention
  nrigen doctor --input NRIDataDictionary.csv --convention legacy`,
		RunE: runDoctor,
	}

	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Input      string        `json:"input"`
	Convention string        `json:"convention"`
	Loaded     int           `json:"loaded"`
	Retained   int           `json:"retained"`
	Skipped    int           `json:"skipped"`
	Checks     []HealthCheck `json:"checks"`
	Healthy    bool          `json:"healthy"`
}

// HealthCheck is a single health check result.
type HealthCheck struct {
	Group   string   `json:"group"`
	Name    string   `json:"name"`
	Status  string   `json:"status"` // "pass", "warn", "error"
	Details []string `json:"details,omitempty"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	conv, err := resolveConvention(cfg)
	if err != nil {
		return err
	}

	out := &DoctorOutput{
		Input:      cfg.Input,
		Convention: conv.Name,
	}
	runChecks(out, cfg.Input, conv, cmdCtx)

	out.Healthy = true
	for _, check := range out.Checks {
		if check.Status == "error" {
			out.Healthy = false
		}
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case output.ModeMarkdown:
		renderDoctorMarkdown(r, out)
	default:
		renderDoctorText(r, out)
	}

	if !out.Healthy {
		return fmt.Errorf("dictionary health check failed")
	}
	return nil
}

func runChecks(out *DoctorOutput, input string, conv statvar.Convention, cmdCtx *CommandContext) {
	// Input group.
	if _, err := os.Stat(input); err != nil {
		out.Checks = append(out.Checks, HealthCheck{
			Group:   "input",
			Name:    "Dictionary file exists",
			Status:  "error",
			Details: []string{err.Error()},
		})
		return
	}
	out.Checks = append(out.Checks, HealthCheck{
		Group:  "input",
		Name:   "Dictionary file exists",
		Status: "pass",
	})

	// Dictionary group.
	rows, err := dictionary.Load(input, cmdCtx.Logger)
	if err != nil {
		out.Checks = append(out.Checks, HealthCheck{
			Group:   "dictionary",
			Name:    "Dictionary parses",
			Status:  "error",
			Details: []string{err.Error()},
		})
		return
	}
	out.Loaded = len(rows)
	out.Checks = append(out.Checks, HealthCheck{
		Group:   "dictionary",
		Name:    "Dictionary parses",
		Status:  "pass",
		Details: []string{fmt.Sprintf("%d measure rows", len(rows))},
	})

	retained := dictionary.Filter(rows, cmdCtx.Cfg.Skip, cmdCtx.Logger)
	out.Retained = len(retained)
	out.Skipped = len(rows) - len(retained)
	status := "pass"
	if len(retained) == 0 {
		status = "error"
	}
	out.Checks = append(out.Checks, HealthCheck{
		Group:   "dictionary",
		Name:    "Rows survive the skip vocabulary",
		Status:  status,
		Details: []string{fmt.Sprintf("retained %d, skipped %d", out.Retained, out.Skipped)},
	})

	// Alias group.
	var malformed []string
	missing := make(map[string]bool)
	var missingOrder []string
	for _, row := range retained {
		if _, err := statvar.Extract(row, conv, cmdCtx.Logger); err != nil {
			malformed = append(malformed, fmt.Sprintf("%s: %v", row.FieldName, err))
			continue
		}
		_, miss := statvar.AliasCoverage(row, conv)
		for _, label := range miss {
			if !missing[label] {
				missing[label] = true
				missingOrder = append(missingOrder, label)
			}
		}
	}

	aliasStatus := "pass"
	if len(malformed) > 0 {
		aliasStatus = "error"
	}
	out.Checks = append(out.Checks, HealthCheck{
		Group:   "aliases",
		Name:    "Field aliases extract",
		Status:  aliasStatus,
		Details: malformed,
	})

	coverageStatus := "pass"
	if len(missingOrder) > 0 {
		coverageStatus = "warn"
	}
	out.Checks = append(out.Checks, HealthCheck{
		Group:   "aliases",
		Name:    "Naming table covers all labels",
		Status:  coverageStatus,
		Details: missingOrder,
	})
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) {
	r.Println("")
	r.Println("NRI Dictionary Health Report")
	r.Println(strings.Repeat("=", 40))
	r.Printf("Input: %s (convention: %s)\n", out.Input, out.Convention)
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.Checks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("  " + titleCaser.String(currentGroup))
			r.Println("  " + strings.Repeat("-", 30))
		}

		icon := "ok"
		switch check.Status {
		case "warn":
			icon = "!!"
		case "error":
			icon = "XX"
		}
		r.Printf("  %s %s\n", icon, check.Name)

		for i, detail := range check.Details {
			if i >= maxCheckDetails {
				r.Printf("       ... and %d more\n", len(check.Details)-maxCheckDetails)
				break
			}
			r.Printf("       - %s\n", detail)
		}
	}
	r.Println("")

	if out.Healthy {
		r.Success("dictionary is healthy")
	} else {
		r.Error("dictionary has problems")
	}
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) {
	r.Println(output.FormatHeader(1, "NRI Dictionary Health Report"))
	r.Println("")
	r.Printf("- **Input**: %s\n", out.Input)
	r.Printf("- **Convention**: %s\n", out.Convention)
	r.Printf("- **Rows**: %d loaded, %d retained, %d skipped\n", out.Loaded, out.Retained, out.Skipped)
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.Checks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(output.FormatHeader(2, titleCaser.String(currentGroup)))
			r.Println("")
		}

		r.Printf("- **[%s]** %s\n", strings.ToUpper(check.Status), check.Name)
		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
}
