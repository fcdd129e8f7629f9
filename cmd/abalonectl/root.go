package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yanizio/abalone/internal/measurement"
	"github.com/yanizio/abalone/internal/predictor"
)

// apiEnv is the same variable the web server reads for its API root.
const (
	apiEnv     = "ABALONE_PREDICTOR__BASE_URL"
	defaultAPI = "http://localhost:8000"
)

// errInvalid is returned after the field messages have been printed.
var errInvalid = errors.New("measurements are invalid")

// newRootCmd builds the command tree writing to out.
func newRootCmd(out io.Writer) *cobra.Command {
	var api string

	root := &cobra.Command{
		Use:   "abalonectl",
		Short: "Predict abalone age from physical measurements",
		Long: `abalonectl talks to the abalone prediction API.

Available subcommands:
  predict - validate measurements and request a prediction
  info    - show the model description and parameters
  health  - show the API liveness status`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&api, "api", defaultAPIURL(), "prediction API base URL (env "+apiEnv+")")

	client := func() (*predictor.Client, error) { return predictor.New(api) }

	root.AddCommand(newPredictCmd(out, client), newInfoCmd(out, client), newHealthCmd(out, client))
	return root
}

func defaultAPIURL() string {
	if v := strings.TrimSpace(os.Getenv(apiEnv)); v != "" {
		return v
	}
	return defaultAPI
}

// flagName maps a field name to its flag, e.g. Whole_weight → whole-weight.
func flagName(field string) string {
	return strings.ReplaceAll(strings.ToLower(field), "_", "-")
}

func newPredictCmd(out io.Writer, client func() (*predictor.Client, error)) *cobra.Command {
	draft := measurement.NewDraft()
	values := make(map[string]*string)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Validate measurements and request a prediction",
		Example: `  abalonectl predict --sex M --length 0.455 --diameter 0.365 --height 0.095 \
    --whole-weight 0.514 --shucked-weight 0.2245 --viscera-weight 0.105 --shell-weight 0.15`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for name, v := range values {
				draft.Set(name, strings.TrimSpace(*v))
			}

			if errs := measurement.Validate(draft); !errs.Valid() {
				for _, name := range errs.Fields() {
					fmt.Fprintf(out, "%s: %s\n", name, errs[name])
				}
				return errInvalid
			}
			payload, err := draft.Payload()
			if err != nil {
				return err
			}

			c, err := client()
			if err != nil {
				return err
			}
			res, err := c.Predict(cmd.Context(), payload)
			if err != nil {
				return fmt.Errorf("prediction failed: %w", err)
			}
			fmt.Fprintf(out, "Estimated rings: %s\n", res.FormatRings())
			fmt.Fprintf(out, "Predicted age:   %s years\n", res.FormatAge())
			return nil
		},
	}

	for _, f := range measurement.Fields() {
		v := new(string)
		*v = draft.Get(f.Name)
		values[f.Name] = v
		usage := f.Wire
		if f.Name == measurement.FieldSex {
			usage = "sex: M, F, or I"
		}
		cmd.Flags().StringVar(v, flagName(f.Name), *v, usage)
	}
	return cmd
}

func newInfoCmd(out io.Writer, client func() (*predictor.Client, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the model description and parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			info, err := c.ModelInfo(cmd.Context())
			if err != nil {
				return fmt.Errorf("model info: %w", err)
			}

			fmt.Fprintln(out, info.Description)
			writeParams(out, "Input parameters", info.InputParameters)
			writeParams(out, "Output parameters", info.OutputParameters)
			return nil
		},
	}
}

func writeParams(out io.Writer, title string, ps []predictor.Parameter) {
	if len(ps) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s:\n", title)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tUNITS\tDESCRIPTION")
	for _, p := range ps {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, p.Units, p.Description)
	}
	_ = tw.Flush()
}

func newHealthCmd(out io.Writer, client func() (*predictor.Client, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show the API liveness status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			h, err := c.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("health: %w", err)
			}
			fmt.Fprintf(out, "%s: %s\n", c.BaseURL(), h.Status)
			return nil
		},
	}
}
