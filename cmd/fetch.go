package cmd

import (
	"bytes"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"osuparse/dotosu"
	"osuparse/fetch"
)

func init() {
	fetchCmd.Flags().StringP("out", "o", "", "write the .osu file here instead of stdout")
	fetchCmd.Flags().Bool("decode", false, "decode the download and print its summary")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <beatmapID>",
	Short: "Download a beatmap's .osu file",
	Long: `Download the .osu text of one difficulty by beatmap ID. Requests are rate
limited per the fetch section of the config file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil || id <= 0 {
			return errors.Errorf("invalid beatmap id %q", args[0])
		}
		outFile, _ := cmd.Flags().GetString("out")
		decode, _ := cmd.Flags().GetBool("decode")

		client := fetch.New(cfg.Fetch)
		defer client.Close()

		data, err := client.Fetch(cmd.Context(), id)
		if err != nil {
			return errors.Wrapf(err, "fetch %d", id)
		}
		log.Info("downloaded", "beatmap", id, "bytes", len(data))

		if outFile != "" {
			if err := os.WriteFile(outFile, data, 0o644); err != nil {
				return errors.Wrapf(err, "write %s", outFile)
			}
		}
		if decode {
			b, err := dotosu.Decode(bytes.NewReader(data))
			f := describe(args[0]+".osu", b, err)
			printDecoded(cmd.OutOrStdout(), f)
			return err
		}
		if outFile == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		return nil
	},
}
