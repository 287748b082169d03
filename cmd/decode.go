package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"osuparse/dotosu"
	"osuparse/osz"
	"osuparse/server"
)

func init() {
	decodeCmd.Flags().Bool("json", false, "print JSON instead of text")
	rootCmd.AddCommand(decodeCmd)
}

var decodeCmd = &cobra.Command{
	Use:   "decode <file.osu|file.osz>",
	Short: "Decode a beatmap and print its summary",
	Long: `Decode one .osu file, or every difficulty inside an .osz archive, and print
metadata and hit-object counts. The first malformed line of a difficulty is
reported with its line number and field.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		files, err := decodePath(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "\t")
			if err := enc.Encode(files); err != nil {
				return errors.Wrap(err, "encode json")
			}
		} else {
			for i, f := range files {
				if i > 0 {
					fmt.Fprintln(out)
				}
				printDecoded(out, f)
			}
		}

		failed := 0
		for _, f := range files {
			if f.Error != "" {
				failed++
			}
		}
		if failed > 0 {
			return errors.Errorf("%d of %d beatmaps failed to decode", failed, len(files))
		}
		return nil
	},
}

type decodedFile struct {
	Name string `json:"name"`
	*server.DecodeResponse
	Error string `json:"error,omitempty"`
}

func decodePath(path string) ([]decodedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	if !strings.EqualFold(filepath.Ext(path), ".osz") {
		b, err := dotosu.Decode(bytes.NewReader(data))
		return []decodedFile{describe(filepath.Base(path), b, err)}, nil
	}

	members, err := osz.DecodeAll(data)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	files := make([]decodedFile, 0, len(members))
	for _, m := range members {
		files = append(files, describe(m.Name, m.Beatmap, m.Err))
	}
	return files, nil
}

func describe(name string, b *dotosu.Beatmap, err error) decodedFile {
	if err != nil {
		log.Debug("decode failed", "file", name, "err", err)
		return decodedFile{Name: name, Error: err.Error()}
	}
	resp := server.Describe(b)
	return decodedFile{Name: name, DecodeResponse: &resp}
}

func printDecoded(w io.Writer, f decodedFile) {
	fmt.Fprintln(w, f.Name)
	if f.Error != "" {
		fmt.Fprintf(w, "  error: %s\n", f.Error)
		return
	}
	m, s := f.Metadata, f.Summary
	fmt.Fprintf(w, "  %s - %s [%s] (%s)\n", m.Artist, m.Title, m.Version, m.Creator)
	fmt.Fprintf(w, "  format v%d, mode %d, beatmap %d, set %d\n", f.FormatVersion, m.Mode, m.BeatmapID, m.BeatmapSetID)
	fmt.Fprintf(w, "  %d objects: %d circles, %d sliders, %d spinners, %d holds\n",
		s.Objects(), s.Circles, s.Sliders, s.Spinners, s.Holds)
	if s.Objects() > 0 {
		fmt.Fprintf(w, "  %dms to %dms\n", s.FirstObject, s.LastObject)
	}
	if s.MaxBPM > 0 {
		fmt.Fprintf(w, "  bpm %.0f-%.0f, %d kiai points\n", s.MinBPM, s.MaxBPM, s.KiaiPoints)
	}
}
