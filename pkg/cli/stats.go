package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskportal/pkg/cli/config"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
	"github.com/secmon-lab/riskportal/pkg/usecase"
	"github.com/secmon-lab/riskportal/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdStats() *cli.Command {
	var repoCfg config.Repository

	return &cli.Command{
		Name:  "stats",
		Usage: "Print a register summary to the terminal",
		Flags: repoCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo)

			riskStats, err := uc.Risk.RiskStatistics(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to compute risk statistics")
			}
			controlStats, err := uc.Control.ControlStatistics(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to compute control statistics")
			}
			useCaseStats, err := uc.UseCase.UseCaseStatistics(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to compute use case statistics")
			}

			bold := color.New(color.Bold).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()
			yellow := color.New(color.FgYellow).SprintFunc()
			green := color.New(color.FgGreen).SprintFunc()
			cyan := color.New(color.FgCyan).SprintFunc()

			fmt.Printf("%s\n", bold("Risks"))
			fmt.Printf("  total: %d\n", riskStats.TotalRisks)
			fmt.Printf("  residual levels: %s %d  %s %d  %s %d  %s %d\n",
				red(types.LevelCritical),
				riskStats.ByResidualLevel[types.LevelCritical],
				yellow(types.LevelHigh),
				riskStats.ByResidualLevel[types.LevelHigh],
				cyan(types.LevelMedium),
				riskStats.ByResidualLevel[types.LevelMedium],
				green(types.LevelLow),
				riskStats.ByResidualLevel[types.LevelLow],
			)
			fmt.Printf("  average reduction: %.0f%%\n", riskStats.AverageRiskReduction)
			fmt.Printf("  with agreed mitigation: %d\n", riskStats.MitigatedRisksCount)

			fmt.Printf("%s\n", bold("Controls"))
			fmt.Printf("  total: %d\n", controlStats.TotalControls)
			fmt.Printf("  implemented: %s  in progress: %s  planned: %s  not started: %s\n",
				green(controlStats.ByImplementationStatus[types.StatusImplemented]),
				cyan(controlStats.ByImplementationStatus[types.StatusInProgress]),
				yellow(controlStats.ByImplementationStatus[types.StatusPlanned]),
				red(controlStats.ByImplementationStatus[types.StatusNotStarted]),
			)

			fmt.Printf("%s\n", bold("AI Use Cases"))
			fmt.Printf("  total: %d\n", useCaseStats.Total)
			fmt.Printf("  estimated cost saving: %.0f\n", useCaseStats.TotalCostSaving)

			return nil
		},
	}
}
