package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/stratsearch/internal/model"
	"github.com/ppiankov/stratsearch/internal/pipeline"
	"github.com/ppiankov/stratsearch/internal/score"
)

// TerminalApprover asks the operator at every gate. Prompts go to out,
// answers are read line by line from in. End of input declines.
type TerminalApprover struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalApprover creates an approver over the given streams
func NewTerminalApprover(in io.Reader, out io.Writer) *TerminalApprover {
	return &TerminalApprover{in: bufio.NewReader(in), out: out}
}

var _ pipeline.Approver = (*TerminalApprover)(nil)

// ApproveFocus shows the clarified focus. On decline the operator may type
// a replacement; a blank replacement cancels the run.
func (a *TerminalApprover) ApproveFocus(ctx context.Context, focus string) (string, bool, error) {
	fmt.Fprintf(a.out, "\nProposed research focus:\n  %s\n\n", focus)

	ok, err := a.askYesNo(ctx, "Proceed with this focus? (y/n): ")
	if err != nil || ok {
		return focus, ok, err
	}

	manual, err := a.readLine(ctx, "Enter your own focus (blank to cancel): ")
	if errors.Is(err, io.EOF) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if manual == "" {
		return "", false, nil
	}
	return manual, true, nil
}

// ReviewStrategies lists the proposed strategies and lets the operator drop
// entries by number before confirming
func (a *TerminalApprover) ReviewStrategies(ctx context.Context, records []*model.StrategyRecord) ([]*model.StrategyRecord, bool, error) {
	fmt.Fprintf(a.out, "\nProposed strategies:\n")
	a.printStrategies(records)

	answer, err := a.readLine(ctx, "Numbers to remove, comma-separated (blank to keep all): ")
	if errors.Is(err, io.EOF) {
		return records, false, nil
	}
	if err != nil {
		return records, false, err
	}
	if positions := pipeline.ParsePositions(answer); len(positions) > 0 {
		records = pipeline.RemovePositions(records, positions)
		fmt.Fprintf(a.out, "\nFinal strategy list:\n")
		a.printStrategies(records)
	}
	if len(records) == 0 {
		fmt.Fprintf(a.out, "No strategies left.\n")
		return records, false, nil
	}

	ok, err := a.askYesNo(ctx, "Continue with these strategies? (y/n): ")
	return records, ok, err
}

// ApproveLinks shows the primary link chosen for every record
func (a *TerminalApprover) ApproveLinks(ctx context.Context, records []*model.StrategyRecord) ([]*model.StrategyRecord, bool, error) {
	fmt.Fprintf(a.out, "\nResolved links:\n")
	for _, rec := range records {
		fmt.Fprintf(a.out, "- %s: %s\n", rec.Country, rec.PrimaryLink)
	}
	fmt.Fprintln(a.out)

	ok, err := a.askYesNo(ctx, "Fetch content from these links? (y/n): ")
	return records, ok, err
}

// ApproveExport prints the verification overview of every record
func (a *TerminalApprover) ApproveExport(ctx context.Context, records []*model.StrategyRecord) ([]*model.StrategyRecord, bool, error) {
	fmt.Fprintf(a.out, "\nVerification results:\n\n")
	for _, rec := range records {
		fmt.Fprintf(a.out, "%s: %s\n", rec.Label(), score.Overview(rec))
	}

	ok, err := a.askYesNo(ctx, "Export these results? (y/n): ")
	return records, ok, err
}

func (a *TerminalApprover) printStrategies(records []*model.StrategyRecord) {
	for i, rec := range records {
		fmt.Fprintf(a.out, "%2d. %s\n", i+1, rec.Label())
	}
	fmt.Fprintln(a.out)
}

// askYesNo repeats the prompt until the answer is y, yes, n or no
func (a *TerminalApprover) askYesNo(ctx context.Context, prompt string) (bool, error) {
	for {
		answer, err := a.readLine(ctx, prompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintf(a.out, "Please answer y or n.\n")
	}
}

// readLine returns the trimmed next line. A final line without newline is
// returned as is; io.EOF is only reported when nothing was read.
func (a *TerminalApprover) readLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(a.out, prompt)

	line, err := a.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(a.out)
			return "", io.EOF
		}
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
