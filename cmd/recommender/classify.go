package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shadysedhom/mair-assignment/internal/dialogue"
	"github.com/shadysedhom/mair-assignment/internal/domain"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [utterance]...",
	Short: "Print the dialogue act of each utterance",
	Long: `Classifies each argument. Without arguments, reads one utterance per
line from stdin until EOF or an empty line.`,
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	container, logger, err := bootstrap(nil)
	if err != nil {
		return err
	}
	defer container.Close()
	defer logger.Sync()

	out := cmd.OutOrStdout()
	if len(args) > 0 {
		return printActs(cmd.Context(), container.Classifier, out, args)
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			return nil
		}
		if err := printActs(cmd.Context(), container.Classifier, out, []string{line}); err != nil {
			return err
		}
	}
}

func printActs(ctx context.Context, classifier dialogue.Classifier, out io.Writer, utterances []string) error {
	labels, err := classifier.Predict(ctx, utterances)
	if err != nil {
		return err
	}
	if len(labels) != len(utterances) {
		return fmt.Errorf("classifier returned %d labels for %d utterances", len(labels), len(utterances))
	}

	for i, label := range labels {
		act, ok := domain.ParseAct(label)
		if !ok {
			fmt.Fprintf(out, "%s\t%s (unrecognised %q)\n", utterances[i], act, label)
			continue
		}
		fmt.Fprintf(out, "%s\t%s\n", utterances[i], act)
	}
	return nil
}
