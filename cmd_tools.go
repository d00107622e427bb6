package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"echogrove/pkg/engine/world"
	"echogrove/pkg/game/devtools"
	"echogrove/pkg/game/level"
)

var (
	heatmapSeed int64
	heatmapOut  string
	heatmapText bool
)

var creaturesCmd = &cobra.Command{
	Use:   "creatures",
	Short: "List the creature hidden in each level",
	Args:  cobra.NoArgs,
	RunE:  runCreatures,
}

var probeCmd = &cobra.Command{
	Use:   "probe [x] [y]",
	Short: "Show the feedback a player would get at a point",
	Long: `Evaluates proximity, meters and the spoken hint with the cursor at (x, y)
in the level given by --level and the mode given by --mode.

Example:
  echogrove probe 500 140 --level 1 --mode audio-first`,
	Args: cobra.ExactArgs(2),
	RunE: runProbe,
}

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Write an HTML proximity heatmap of a level",
	Args:  cobra.NoArgs,
	RunE:  runHeatmap,
}

func init() {
	heatmapCmd.Flags().Int64Var(&heatmapSeed, "seed", 1, "Seed for distractor placement")
	heatmapCmd.Flags().StringVar(&heatmapOut, "out", ".", "Output directory")
	heatmapCmd.Flags().BoolVar(&heatmapText, "text", false, "Also write a plain-text map.txt dump")
}

func runCreatures(cmd *cobra.Command, _ []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tCREATURE\tPOSITION\tRADIUS\tTONE\tDIFFICULTY")
	for lvl := 1; lvl <= level.TotalLevels; lvl++ {
		c, err := ds.ForLevel(lvl)
		if err != nil {
			return err
		}
		diff, err := level.DifficultyFor(lvl)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.0f\t%.0f Hz\t%s\n",
			lvl, c.Name, c.Position, c.Radius(diff), c.BaseFrequency(), level.Description(lvl))
	}
	return w.Flush()
}

func runProbe(cmd *cobra.Command, args []string) error {
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid x %q: %w", args[0], err)
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid y %q: %w", args[1], err)
	}

	ds, err := loadDataset()
	if err != nil {
		return err
	}
	mode, err := selectedMode()
	if err != nil {
		return err
	}

	r, err := devtools.Probe(ds, startLevel, mode, world.Pt(x, y))
	if err != nil {
		return err
	}
	return r.Write(cmd.OutOrStdout())
}

func runHeatmap(cmd *cobra.Command, _ []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}
	f, err := devtools.Sample(ds, startLevel, heatmapSeed)
	if err != nil {
		return err
	}

	path, err := devtools.SaveHeatmapHTML(f, heatmapOut)
	if err != nil {
		return err
	}
	logger.Info("heatmap written", zap.String("path", path), zap.Int("level", f.Level))
	fmt.Fprintln(cmd.OutOrStdout(), path)

	if heatmapText {
		path, err := devtools.DumpMapToFile(f, heatmapOut)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}
