package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Stefan/ppm-saas-sub008/internal/manifest"
	"github.com/Stefan/ppm-saas-sub008/internal/model"
	"github.com/Stefan/ppm-saas-sub008/internal/output"
	"github.com/Stefan/ppm-saas-sub008/internal/report"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a page or component against its structure manifest",
	Long: `Verify that a rendered page or component exposes every element its
structure manifest declares.

The target is a saved HTML file (--html, "-" for stdin) or a live URL
(--url). With neither, a page is opened at STRUCTCHECK_BASE_URL joined
with its manifest path.

Exit code 0 means the structure passed; 1 means elements are missing or,
with --baseline, elements found in the baseline run have disappeared.

Examples:
  structcheck verify --html dashboard.html --page Dashboard
  structcheck verify --url http://localhost:3000/risks --page Risks --condition "user can edit risks"
  structcheck verify --html table.html --component DataTable --state loading --report
  structcheck verify --page Financials --out results/financials.json --baseline results/last.json`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().String("html", "", "Saved HTML file to verify (- for stdin)")
	verifyCmd.Flags().String("url", "", "URL to open in a browser")
	verifyCmd.Flags().String("page", "", "Page structure name")
	verifyCmd.Flags().String("component", "", "Component structure name")
	verifyCmd.Flags().String("state", "", "Component state (loading, error, empty...)")
	verifyCmd.Flags().String("condition", "", "Verify only the page's conditional sections for this condition")
	verifyCmd.Flags().String("out", "", "Also save the result to this file (.json or .yaml)")
	verifyCmd.Flags().String("baseline", "", "Compare with a result saved by --out and report regressions")
	verifyCmd.Flags().Bool("report", false, "Print a human-readable report instead of structured output")
	addManifestFlag(verifyCmd)
}

// verifyOptions are the parsed verify flags.
type verifyOptions struct {
	html      string
	url       string
	page      string
	component string
	state     string
	condition string
	out       string
	baseline  string
}

func runVerify(cmd *cobra.Command, args []string) error {
	var opts verifyOptions
	opts.html, _ = cmd.Flags().GetString("html")
	opts.url, _ = cmd.Flags().GetString("url")
	opts.page, _ = cmd.Flags().GetString("page")
	opts.component, _ = cmd.Flags().GetString("component")
	opts.state, _ = cmd.Flags().GetString("state")
	opts.condition, _ = cmd.Flags().GetString("condition")
	opts.out, _ = cmd.Flags().GetString("out")
	opts.baseline, _ = cmd.Flags().GetString("baseline")
	asReport, _ := cmd.Flags().GetBool("report")

	reg, _, err := loadRegistry(cmd)
	if err != nil {
		return err
	}

	res, err := executeVerify(cmd.Context(), reg, opts)
	if err != nil {
		return err
	}

	if asReport {
		if err := writeReport(output.Out, res); err != nil {
			return err
		}
	} else if err := output.Print(res); err != nil {
		return err
	}

	if !res.Result.Passed || len(res.Regressions) > 0 {
		return fmt.Errorf("%w: %s", errFailed, res.Summary)
	}
	return nil
}

// writeReport prints the formatted report followed by any regressions.
func writeReport(w io.Writer, res *output.VerifyResult) error {
	if _, err := fmt.Fprintln(w, report.FormatVerificationError(res.Result)); err != nil {
		return err
	}
	for _, id := range res.Regressions {
		if _, err := fmt.Fprintf(w, "Regression: %s was found in the baseline run but is now missing\n", id); err != nil {
			return err
		}
	}
	return nil
}

// verifyTarget picks the HTML file, URL, or page URL to open.
func verifyTarget(opts verifyOptions, page *model.PageStructure) (string, error) {
	switch {
	case opts.html != "" && opts.url != "":
		return "", fmt.Errorf("specify only one of --html or --url")
	case opts.html != "":
		return opts.html, nil
	case opts.url != "":
		return opts.url, nil
	case page != nil:
		return settings().URL(page.Path), nil
	default:
		return "", fmt.Errorf("specify --html or --url to verify a component")
	}
}

// executeVerify opens the target, verifies it, and attaches the baseline
// comparison. The result file is written when opts.out is set.
func executeVerify(ctx context.Context, reg *manifest.Registry, opts verifyOptions) (*output.VerifyResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if (opts.page == "") == (opts.component == "") {
		return nil, fmt.Errorf("specify exactly one of --page or --component")
	}
	if opts.condition != "" && opts.page == "" {
		return nil, fmt.Errorf("--condition requires --page")
	}
	if opts.state != "" && opts.component == "" {
		return nil, fmt.Errorf("--state requires --component")
	}

	var (
		page      *model.PageStructure
		component model.ComponentStructure
	)
	if opts.page != "" {
		p, err := reg.Page(opts.page)
		if err != nil {
			return nil, err
		}
		page = &p
	} else {
		c, err := reg.Component(opts.component)
		if err != nil {
			return nil, err
		}
		component = c
	}

	target, err := verifyTarget(opts, page)
	if err != nil {
		return nil, err
	}
	provider, err := openTarget(ctx, target)
	if err != nil {
		return nil, err
	}
	defer closeProvider(provider)
	v := newVerifier(provider)

	res := &output.VerifyResult{ID: uuid.NewString(), Source: target, TS: time.Now().Unix()}
	switch {
	case page != nil && opts.condition != "":
		res.Kind = output.KindPage
		res.Result = v.VerifyConditionalSections(ctx, *page, opts.condition)
	case page != nil:
		res.Kind = output.KindPage
		res.Result = v.VerifyPageStructure(ctx, *page)
	default:
		res.Kind = output.KindComponent
		res.Result = v.VerifyComponentStructure(ctx, component, opts.state)
	}
	res.Summary = report.Summary(res.Result)

	if opts.baseline != "" {
		prev, err := output.LoadVerifyResult(opts.baseline)
		if err != nil {
			return nil, fmt.Errorf("load baseline: %w", err)
		}
		res.Changes = model.DiffResults(prev.Result, res.Result)
		res.Regressions = model.Regressions(res.Changes)
	}

	if opts.out != "" {
		if err := output.SaveFile(opts.out, res); err != nil {
			return nil, fmt.Errorf("save result: %w", err)
		}
	}

	log.Info().
		Str("run", res.ID).
		Str("target", res.Result.Target).
		Bool("passed", res.Result.Passed).
		Int("missing", len(res.Result.MissingElements)).
		Int("regressions", len(res.Regressions)).
		Msg("verification complete")
	return res, nil
}
