// servoscale-linux runs the conditioner against character-device GPIO
// lines on a Linux SBC. Meant for bench work: checking a receiver/ESC
// pair and the profile tuning without flashing a micro.
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sparques/servoscale"
	"github.com/sparques/servoscale/drive"
	"github.com/sparques/servoscale/gpiod"
)

var (
	chipFlag    string
	inFlag      int
	outFlag     int
	statusFlag  int
	profileFlag string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "servoscale-linux",
	Short: "Condition an RC servo channel on Linux GPIO lines",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&chipFlag, "chip", "gpiochip0", "gpio chip device name")
	rootCmd.Flags().IntVar(&inFlag, "in", 17, "line offset of the receiver pulse input")
	rootCmd.Flags().IntVar(&outFlag, "out", 27, "line offset of the ESC pulse output")
	rootCmd.Flags().IntVar(&statusFlag, "status", -1, "line offset of the status LED, -1 to disable")
	rootCmd.Flags().StringVar(&profileFlag, "profile", "trainer", "tuning profile: trainer or softrev")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose output")
}

func profile(name string) (drive.Config, bool) {
	switch name {
	case "trainer":
		return drive.TrainerProfile(), true
	case "softrev":
		return drive.SoftReverseProfile(), true
	}
	return drive.Config{}, false
}

func run(cmd *cobra.Command, args []string) error {
	log.SetLevel(log.InfoLevel)
	if verboseFlag {
		log.SetLevel(log.DebugLevel)
	}

	cfg, ok := profile(profileFlag)
	if !ok {
		return fmt.Errorf("unknown profile %q", profileFlag)
	}

	in, err := gpiod.RequestInput(chipFlag, inFlag)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := gpiod.RequestOutput(chipFlag, outFlag)
	if err != nil {
		return err
	}
	defer out.Close()

	cond, err := servoscale.NewConditioner(in, out, cfg)
	if err != nil {
		return err
	}

	if statusFlag >= 0 {
		status, err := gpiod.RequestOutput(chipFlag, statusFlag)
		if err != nil {
			return err
		}
		defer status.Close()
		cond.StatusLight = status
	}

	log.Infof("conditioning %s line %d -> line %d, profile %s", chipFlag, inFlag, outFlag, profileFlag)
	log.Debugf("profile: %+v", cfg)

	cond.Run()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
