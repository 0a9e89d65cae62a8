package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/velodom/velo/pkg/vdom"
)

func explainCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "explain <flags>",
		Short: "Decode a flag value into its named bits",
		Long: `Decode a numeric flag mask into its named bits.

By default the value is read as patch flags; pass --kind shape for
shape flags. Negative patch values decode to their special name.

Examples:

  velo explain 3             # TEXT | CLASS
  velo explain -- -2         # BAIL
  velo explain --kind shape 17`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseInt(args[0], 0, 32)
			if err != nil {
				return fmt.Errorf("invalid flag value %q: %w", args[0], err)
			}

			var names []string
			switch kind {
			case "patch":
				names = vdom.PatchFlagNames(vdom.PatchFlags(value))
			case "shape":
				names = vdom.ShapeFlagNames(vdom.ShapeFlags(value))
			default:
				return fmt.Errorf("unknown kind %q (patch or shape)", kind)
			}

			if len(names) == 0 {
				fmt.Println("(no bits set)")
				return nil
			}
			fmt.Println(strings.Join(names, " | "))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "patch", "Flag kind: patch or shape")
	return cmd
}
