package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Khan/genqlient/graphql"
	"github.com/spf13/cobra"

	"github.com/duboisf/donate/internal/api"
)

func newQueryCmd(opts Options, sess *session) *cobra.Command {
	var (
		vars       []string
		opName     string
		apiVersion string
	)

	cmd := &cobra.Command{
		Use:   "query [file]",
		Short: "Run a GraphQL document and print the result as JSON",
		Long: "Run a GraphQL document read from file, or from stdin when file is\n" +
			"omitted or \"-\". Variables are given as --var name=value; values\n" +
			"that parse as JSON are sent as JSON, anything else as a string.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(opts.Stdin, args)
			if err != nil {
				return err
			}
			variables, err := parseVars(vars)
			if err != nil {
				return err
			}

			ctx := api.WithAPIVersion(cmd.Context(), api.APIVersion(apiVersion))
			client := sess.client(ctx)

			var data json.RawMessage
			resp := &graphql.Response{Data: &data}
			reqErr := client.MakeRequest(ctx, &graphql.Request{
				Query:     doc,
				Variables: variables,
				OpName:    opName,
			}, resp)
			if reqErr == nil {
				sess.persist(client)
			}

			if len(data) > 0 && string(data) != "null" {
				var out bytes.Buffer
				if err := json.Indent(&out, data, "", "  "); err != nil {
					return fmt.Errorf("formatting result: %w", err)
				}
				out.WriteByte('\n')
				_, _ = out.WriteTo(opts.Stdout)
			}
			if reqErr != nil {
				return fmt.Errorf("running query: %w", reqErr)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&vars, "var", nil, "Variable as name=value (repeatable)")
	cmd.Flags().StringVar(&opName, "operation-name", "", "Operation to run when the document has several")
	cmd.Flags().StringVar(&apiVersion, "api-version", string(api.APIVersion1), "API version to send the operation to (1 or 2)")
	_ = cmd.RegisterFlagCompletionFunc("api-version", cobra.FixedCompletions(
		[]string{"1", "2"}, cobra.ShellCompDirectiveNoFileComp,
	))
	return cmd
}

func readDocument(stdin io.Reader, args []string) (string, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		if stdin == nil {
			return "", fmt.Errorf("no document given")
		}
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	doc := strings.TrimSpace(string(data))
	if doc == "" {
		return "", fmt.Errorf("document is empty")
	}
	return doc, nil
}

// parseVars turns name=value pairs into a variables object.
func parseVars(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	vars := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q, want name=value", pair)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		vars[name] = v
	}
	return vars, nil
}
