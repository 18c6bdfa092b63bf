package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockgate/internal/matching"
	"github.com/getmockd/mockgate/pkg/cli/internal/output"
	"github.com/getmockd/mockgate/pkg/model"
	"github.com/getmockd/mockgate/pkg/recording"
)

// errNoMatch is returned by "replays match" when no entry answers.
var errNoMatch = errors.New("no replay entry matches")

var replaysCmd = &cobra.Command{
	Use:   "replays",
	Short: "Inspect replay files",
}

// replaySummary is the JSON form of one replay entry.
type replaySummary struct {
	Index  int          `json:"index"`
	Method model.Method `json:"method"`
	Path   string       `json:"path"`
	Query  *string      `json:"queries"`
	Body   *model.Body  `json:"body"`
	Then   model.Body   `json:"then"`
}

var replaysInspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "List the entries of a replay file in match order",
	Example: `  mockgate replays inspect todos.json
  mockgate replays inspect todos.json --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		replays, err := recording.Load(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if jsonOutput {
			summaries := make([]replaySummary, 0, len(replays))
			for i, r := range replays {
				summaries = append(summaries, replaySummary{
					Index:  i,
					Method: r.When.Method,
					Path:   r.When.Path,
					Query:  r.When.Queries,
					Body:   r.When.Body,
					Then:   r.Then,
				})
			}
			return output.JSON(out, summaries)
		}

		tw := output.Table(out)
		fmt.Fprintln(tw, "#\tMETHOD\tPATH\tQUERY\tBODY\tTHEN")
		for i, r := range replays {
			query, _ := r.When.Query()
			body := "-"
			if r.When.Body != nil {
				body = truncate(bodyPreview(*r.When.Body), 40)
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
				i, r.When.Method, r.When.Path, orDash(query), body, truncate(bodyPreview(r.Then), 60))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "%d entries\n", len(replays))
		return nil
	},
}

var (
	matchMethod string
	matchPath   string
	matchQuery  string
	matchBody   string
	matchText   string
)

// matchResult is the JSON form of a match lookup.
type matchResult struct {
	Matched bool               `json:"matched"`
	Index   int                `json:"index"`
	Then    *model.Body        `json:"then,omitempty"`
	Closest *matching.NearMiss `json:"closest,omitempty"`
}

var replaysMatchCmd = &cobra.Command{
	Use:   "match <file>",
	Short: "Show which entry of a replay file answers a request",
	Long: `Show which entry of a replay file answers a request.

Entries are tried in file order and the first match wins, exactly as the
replay handler does. When nothing matches, the closest entry and the
fields that differ are reported and the command exits non-zero.`,
	Example: `  mockgate replays match todos.json --path /api/todos/1
  mockgate replays match users.json --method POST --path /users --body '{"name":"ada"}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		replays, err := recording.Load(args[0])
		if err != nil {
			return err
		}
		req, err := matchRequest()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		patterns := make([]model.Request, len(replays))
		for i, r := range replays {
			patterns[i] = r.When
		}

		for i, p := range patterns {
			if !matching.MatchRequest(p, req) {
				continue
			}
			if jsonOutput {
				return output.JSON(out, matchResult{Matched: true, Index: i, Then: &replays[i].Then})
			}
			fmt.Fprintf(out, "entry %d matches %s\n%s\n", i, req, bodyPreview(replays[i].Then))
			return nil
		}

		idx, miss := matching.Closest(patterns, req)
		if jsonOutput {
			if err := output.JSON(out, matchResult{Index: idx, Closest: miss}); err != nil {
				return err
			}
		} else if idx >= 0 {
			fmt.Fprintf(out, "no entry matches %s\nclosest is entry %d: %s\n", req, idx, miss.Reason)
		} else {
			fmt.Fprintf(out, "no entry matches %s: file has no entries\n", req)
		}
		return errNoMatch
	},
}

func init() {
	f := replaysMatchCmd.Flags()
	f.StringVarP(&matchMethod, "method", "X", "GET", "Request method")
	f.StringVarP(&matchPath, "path", "p", "", "Request path")
	f.StringVarP(&matchQuery, "query", "q", "", "Raw query string, without '?'")
	f.StringVar(&matchBody, "body", "", "JSON request body")
	f.StringVar(&matchText, "text", "", "Text request body")
	_ = replaysMatchCmd.MarkFlagRequired("path")
	replaysMatchCmd.MarkFlagsMutuallyExclusive("body", "text")

	replaysCmd.AddCommand(replaysInspectCmd, replaysMatchCmd)
	rootCmd.AddCommand(replaysCmd)
}

func matchRequest() (model.Request, error) {
	req := model.NewRequest(model.ParseMethod(strings.ToUpper(matchMethod)), matchPath)
	if matchQuery != "" {
		req = req.WithQueries(strings.TrimPrefix(matchQuery, "?"))
	}
	switch {
	case matchBody != "":
		body, err := model.DecodeJSON([]byte(matchBody))
		if err != nil {
			return req, fmt.Errorf("--body: %w", err)
		}
		req = req.WithBody(body)
	case matchText != "":
		req = req.WithBody(model.Text(matchText))
	}
	return req, nil
}

// bodyPreview renders JSON and text bodies as their payload and binary
// bodies by size.
func bodyPreview(b model.Body) string {
	_, payload, err := b.Encode()
	if err != nil {
		return b.String()
	}
	if b.Kind() == model.KindBytes {
		return fmt.Sprintf("<%d bytes>", len(payload))
	}
	return string(payload)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
