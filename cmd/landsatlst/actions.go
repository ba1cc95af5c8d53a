package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	cli "gopkg.in/urfave/cli.v1"

	"landsatlst/pkg/calibration"
	"landsatlst/pkg/config"
	"landsatlst/pkg/metadata"
	"landsatlst/pkg/pipeline"
	"landsatlst/pkg/scene"
)

// logOutput receives log entries; tests point it elsewhere.
var logOutput io.Writer = os.Stderr

// loadSettings reads the configuration file and applies global flag overrides.
func loadSettings(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.GlobalString("config"))
	if err != nil {
		return nil, err
	}

	if c.GlobalIsSet("log-level") {
		cfg.Output.LogLevel = c.GlobalString("log-level")
	}
	if c.GlobalBool("strict-bands") {
		cfg.Processing.StrictBands = true
	}
	if c.GlobalBool("memoize") {
		cfg.Processing.Memoize = true
	}
	return cfg, nil
}

func newLogger(level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetOutput(logOutput)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger, nil
}

// setup is the common prologue of the scene commands.
func setup(c *cli.Context) (*config.Config, *logrus.Logger, error) {
	cfg, err := loadSettings(c)
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cfg.Output.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func openScene(dir string, cfg *config.Config, logger logrus.FieldLogger) (*scene.Scene, error) {
	return scene.Load(dir,
		scene.WithLogger(logger),
		scene.WithStrictBands(cfg.Processing.StrictBands),
		scene.WithMetadataSuffix(cfg.Input.MetadataSuffix),
		scene.WithImageSuffix(cfg.Input.ImageSuffix),
	)
}

func infoAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("info expects exactly one scene directory")
	}
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}

	s, err := openScene(c.Args().First(), cfg, logger)
	if err != nil {
		return err
	}

	out := c.App.Writer
	fmt.Fprintf(out, "Scene:    %s\n", s.Dir())
	fmt.Fprintf(out, "Metadata: %s (%d fields)\n", s.Metadata().Source(), s.Metadata().Len())

	elevation, err := s.Metadata().GetFloat(calibration.SunElevationKey)
	var missing *metadata.MissingFieldError
	switch {
	case err == nil:
		fmt.Fprintf(out, "%s: %g\n", calibration.SunElevationKey, elevation)
	case errors.As(err, &missing):
		fmt.Fprintf(out, "%s: not present\n", calibration.SunElevationKey)
	default:
		return err
	}

	fmt.Fprintf(out, "Bands:    %d\n", s.Bands().Len())
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, band := range s.Bands().IDs() {
		path, err := s.Bands().Path(band)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s\t%s\n", band, path)
	}
	return w.Flush()
}

func computeAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return fmt.Errorf("compute expects a scene directory and at least one product (%v)", pipeline.Catalogue())
	}
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	if c.IsSet("preview-dir") {
		cfg.Output.PreviewDir = c.String("preview-dir")
	}

	s, err := openScene(c.Args().First(), cfg, logger)
	if err != nil {
		return err
	}

	opts := []calibration.Option{calibration.WithLogger(logger)}
	if cfg.Processing.Memoize {
		opts = append(opts, calibration.WithMemoization())
	}

	p, err := pipeline.New(calibration.ForScene(s, opts...), &pipeline.Params{
		Products:   c.Args().Tail(),
		PreviewDir: cfg.Output.PreviewDir,
		Logger:     logger.WithField("scene", s.Dir()),
	})
	if err != nil {
		return err
	}
	if err := p.Process(); err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tUNITS\tCOLSxROWS\tFINITE\tNAN\t+INF\t-INF\tMIN\tMAX\tMEAN\tSTDDEV\tPREVIEW")
	for _, r := range p.Results() {
		st := r.Stats
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%d\t%d\t%d\t%.6g\t%.6g\t%.6g\t%.6g\t%s\n",
			r.Product.Name, r.Product.Units, st.Cols, st.Rows,
			st.Finite, st.NaN, st.PosInf, st.NegInf,
			st.Min, st.Max, st.Mean, st.StdDev, r.PreviewPath)
	}
	return w.Flush()
}

func initConfigAction(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		path = defaultConfigPath
	}
	if err := config.CreateDefaultConfigFile(path); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Wrote default configuration to %s\n", path)
	return nil
}

func versionAction(c *cli.Context) error {
	fmt.Fprintf(c.App.Writer, "landsatlst version %s\n", version)
	return nil
}
