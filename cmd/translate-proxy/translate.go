package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newTranslateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "translate <source> <target> [text...]",
		Short: "Translate text once (reads stdin when no text is given)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[2:], " ")
			if text == "" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = strings.TrimRight(string(b), "\n")
			}

			a, err := newApp(cmd, v)
			if err != nil {
				return err
			}
			defer a.close()

			out, err := a.client.Translate(cmd.Context(), text, args[0], args[1])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
}
