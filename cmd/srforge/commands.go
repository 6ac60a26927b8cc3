package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrsinham/srforge/internal/config"
	"github.com/mrsinham/srforge/internal/dicom"
	"github.com/mrsinham/srforge/internal/metadata"
	"github.com/mrsinham/srforge/internal/sr"
)

type globalFlags struct {
	configPath string
	verbose    bool
}

type reportFlags struct {
	metadata        string
	imageLibDir     string
	compositeCtxDir string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "srforge",
		Short:         "Write DICOM TID 1500 measurement reports",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log at debug level")

	root.AddCommand(writeCmd(g))
	root.AddCommand(checkCmd(g))
	root.AddCommand(sampleCmd(g))
	root.AddCommand(configCmd(g))
	root.AddCommand(versionCmd())
	return root
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.metadata, "metadata", "m", "", "Measurement report description (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&f.imageLibDir, "image-library-dir", "", "Directory holding the image library files")
	cmd.Flags().StringVar(&f.compositeCtxDir, "composite-context-dir", "", "Directory holding the composite context files")
	_ = cmd.MarkFlagRequired("metadata")
}

func writeCmd(g *globalFlags) *cobra.Command {
	f := &reportFlags{}
	var output string
	cmd := &cobra.Command{
		Use:   "write",
		Short: "Assemble a report and write it as an Enhanced SR file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			b, err := buildReport(cfg, logger, f)
			if err != nil {
				return err
			}
			opts := dicom.EncodeOptions{
				Equipment: dicom.Equipment{
					Manufacturer:          cfg.Manufacturer,
					ManufacturerModelName: cfg.ManufacturerModelName,
					DeviceSerialNumber:    cfg.DeviceSerialNumber,
					SoftwareVersions:      cfg.SoftwareVersions,
				},
			}
			if n := len(b.composite); n > 0 {
				opts.CompositeContext = b.composite[n-1]
			}
			if err := dicom.WriteFile(output, b.doc, opts); err != nil {
				return err
			}
			logger.Info().
				Str("output", output).
				Str("sop_instance_uid", b.doc.SOPInstanceUID).
				Msg("Report written")

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "✓ Report written")
			fmt.Fprintf(out, "  File: %s\n", output)
			fmt.Fprintf(out, "  Measurement groups: %d\n", len(b.doc.Report.MeasurementGroups))
			fmt.Fprintf(out, "  Completion: %s, Verification: %s\n",
				b.doc.Report.Completion, b.doc.Report.Verification)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func checkCmd(g *globalFlags) *cobra.Command {
	f := &reportFlags{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Assemble a report without writing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			b, err := buildReport(cfg, logger, f)
			if err != nil {
				return err
			}
			r := b.doc.Report
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "✓ Report is valid")
			fmt.Fprintf(out, "  Image library entries: %d\n", r.ImageLibrary.Len())
			fmt.Fprintf(out, "  Measurement groups: %d\n", len(r.MeasurementGroups))
			fmt.Fprintf(out, "  Evidence references: %d\n", len(r.Evidence))
			fmt.Fprintf(out, "  Content items: %d (%d pruned)\n", b.doc.Tree.Len(), b.doc.Pruned)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func configCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(g.configPath)
			if err != nil {
				return err
			}
			return cfg.WriteYAML(cmd.OutOrStdout())
		},
	})
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "srforge %s\n", version)
		},
	}
}

// setup loads the configuration and builds the logger it describes.
func setup(g *globalFlags, stderr io.Writer) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if cfg.SoftwareVersions == "dev" {
		cfg.SoftwareVersions = version
	}
	logger, err := newLogger(cfg, stderr, g.verbose)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logger, nil
}

type built struct {
	doc       *sr.Document
	composite []*dicom.EvidenceFile
}

// buildReport decodes the metadata, loads the evidence it lists and assembles
// the report.
func buildReport(cfg *config.Config, logger zerolog.Logger, f *reportFlags) (*built, error) {
	doc, err := metadata.DecodeFile(f.metadata)
	if err != nil {
		return nil, err
	}

	imageNames, err := sr.ImageLibraryFiles(doc)
	if err != nil {
		return nil, err
	}
	compositeNames, err := sr.CompositeContextFiles(doc)
	if err != nil {
		return nil, err
	}

	images, err := dicom.LoadEvidenceFiles(f.imageLibDir, imageNames)
	if err != nil {
		return nil, err
	}
	composite, err := dicom.LoadEvidenceFiles(f.compositeCtxDir, compositeNames)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Int("images", len(images)).
		Int("composite", len(composite)).
		Msg("Evidence loaded")

	procedure, err := cfg.Procedure()
	if err != nil {
		return nil, fmt.Errorf("procedure code: %w", err)
	}
	newUID, err := cfg.UIDGenerator()
	if err != nil {
		return nil, err
	}

	a := sr.NewAssembler(
		sr.WithLogger(logger),
		sr.WithUIDGenerator(newUID),
		sr.WithProcedureReported(procedure),
		sr.WithVerifyingOrganization(cfg.VerifyingOrganization),
	)
	report, err := a.Assemble(sr.Input{
		Doc:              doc,
		ImageLibrary:     dicom.Evidences(images),
		CompositeContext: dicom.Evidences(composite),
	})
	if err != nil {
		return nil, err
	}
	return &built{doc: report, composite: composite}, nil
}
