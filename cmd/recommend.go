package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/Saumya1404/SHL/internal/catalog"
	"github.com/Saumya1404/SHL/internal/logger"
	"github.com/Saumya1404/SHL/internal/pipeline"
	"github.com/Saumya1404/SHL/internal/server"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptPrint               = "Print recommendations"
	PromptReportByTestType    = "Report by test type"
	PromptDumpToFile          = "Dump recommendations to file"
	PromptAppendToExcludeFile = "Append all recommendations to exclude file"
	PromptExit                = "Exit"

	outputText = "text"
	outputJSON = "json"
)

var errExit = errors.New("exit requested")

var recommendCmd = &cobra.Command{
	Use:   "recommend [job description]",
	Short: "Recommend assessments for a job description",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		recommend(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().Int("top-k", 50, "number of candidates to retrieve")
	recommendCmd.Flags().Int("final-k", 10, "maximum number of recommendations")
	recommendCmd.Flags().StringP("query-file", "f", "", "read the job description from a file")
	recommendCmd.Flags().StringP("output", "o", outputText, "output format: text or json")
	recommendCmd.Flags().BoolP("interactive", "i", false, "choose follow-up actions for the recommendations")
	recommendCmd.Flags().StringP("exclude-file", "e", "", "special file with assessments to exclude. Default is unset.")

	viper.BindPFlag("recommend.top-k", recommendCmd.Flags().Lookup("top-k"))
	viper.BindPFlag("recommend.final-k", recommendCmd.Flags().Lookup("final-k"))
	viper.BindPFlag("catalog.exclude-file", recommendCmd.Flags().Lookup("exclude-file"))
}

// recommend runs the pipeline once for the job description given on the
// command line, in a file or at the prompt.
func recommend(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the shl-recommender", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	output, _ := cmd.Flags().GetString("output")
	if output != outputText && output != outputJSON {
		logger.Fatal("invalid output format", zap.String("output", output))
	}

	queryFile, _ := cmd.Flags().GetString("query-file")
	query, err := readQuery(args, queryFile, cmd.InOrStdin())
	if err != nil {
		logger.Fatal("reading the job description", zap.Error(err))
	}

	p, err := buildPipeline(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the pipeline", zap.Error(err))
	}

	res, err := p.Recommend(ctx, query, pipelineOptions(config))
	if err != nil {
		logger.Fatal("recommending assessments", zap.Error(err))
	}

	recommendations := res.Recommendations
	logger.Info("recommendations ready",
		zap.Int("retrieved", res.Retrieved),
		zap.Int("count", recommendations.Len()),
	)

	if err := printRecommendations(cmd.OutOrStdout(), output, recommendations); err != nil {
		logger.Fatal("printing recommendations", zap.Error(err))
	}

	interactive, _ := cmd.Flags().GetBool("interactive")
	if !interactive || recommendations.Len() == 0 {
		return
	}

	excludeFile := config.Catalog.ExcludeFile
	for {
		items := []string{PromptPrint, PromptReportByTestType, PromptDumpToFile}
		if excludeFile != "" && recommendations.Len() != 0 {
			items = append(items, PromptAppendToExcludeFile)
		}

		prompt := promptui.Select{
			Label: "Next?",
			Items: append(items, PromptExit),
		}

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(cmd.OutOrStdout(), action, logger, output, excludeFile, recommendations); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(w io.Writer, action string, logger *zap.Logger, output, excludeFile string, recommendations *catalog.Candidates) error {
	switch action {
	case PromptPrint:
		return printRecommendations(w, output, recommendations)
	case PromptReportByTestType:
		pretty, _ := json.MarshalIndent(recommendations.ReportByTestType(), "", "  ")
		logger.Info(string(pretty), zap.Int("assessments count", recommendations.Len()))
		return nil
	case PromptDumpToFile:
		filename, err := recommendations.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		if err := appendToExcludeFile(excludeFile, recommendations); err != nil {
			return err
		}
		logger.Info("appended to exclude file", zap.String("filename", excludeFile))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// appendToExcludeFile records recommendations in the exclude file and drops
// them from the current list.
func appendToExcludeFile(path string, recommendations *catalog.Candidates) error {
	if path == "" {
		return errors.New("exclude file is not configured")
	}

	excluded, err := catalog.GetExcludedFromFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		excluded, err = &catalog.ExcludedAssessments{}, nil
	}
	if err != nil {
		return err
	}

	excluded.Append(recommendations.ToExcluded())

	if err := excluded.ToFile(path); err != nil {
		return err
	}

	recommendations.Exclude(catalog.CandidateIDField, excluded.IDs())
	return nil
}

func readQuery(args []string, queryFile string, stdin io.Reader) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}

	if queryFile != "" {
		var data []byte
		var err error
		if queryFile == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(queryFile)
		}
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(string(data)) == "" {
			return "", pipeline.ErrEmptyQuery
		}
		return string(data), nil
	}

	prompt := promptui.Prompt{
		Label: "Job description",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return pipeline.ErrEmptyQuery
			}
			return nil
		},
	}
	return prompt.Run()
}

func printRecommendations(w io.Writer, output string, recommendations *catalog.Candidates) error {
	if output == outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(server.NewRecommendResponse(recommendations))
	}

	if recommendations.Len() == 0 {
		_, err := fmt.Fprintln(w, "No assessments match the job description.")
		return err
	}
	for _, line := range recommendations.Summary() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
