// Package osz reads .osz beatmap set archives, which are plain zip files.
package osz

import (
	"archive/zip"
	"bytes"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"osuparse/dotosu"
)

// Member is one .osu difficulty found in an archive.
type Member struct {
	Name string
	Data []byte
}

// ReadMembers returns the .osu files of an archive sorted by name. Nested
// paths and directories are skipped.
func ReadMembers(data []byte) ([]Member, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(err, "open osz")
	}

	var members []Member
	for _, file := range zipReader.File {
		if !strings.EqualFold(pathExt(file.Name), ".osu") {
			continue
		}
		if file.FileInfo().IsDir() || strings.ContainsAny(file.Name, `/\`) {
			continue
		}
		contents, err := readFile(file)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", file.Name)
		}
		members = append(members, Member{Name: file.Name, Data: contents})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members, nil
}

func readFile(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func pathExt(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i:]
	}
	return ""
}

// Decoded pairs a member with its decode result. Exactly one of Beatmap and Err is set.
type Decoded struct {
	Name    string
	Beatmap *dotosu.Beatmap
	Err     error
}

// DecodeAll decodes every .osu member. A member that fails does not stop the others.
func DecodeAll(data []byte) ([]Decoded, error) {
	members, err := ReadMembers(data)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, errors.New("no .osu files found in archive")
	}
	out := make([]Decoded, 0, len(members))
	for _, m := range members {
		b, err := dotosu.Decode(bytes.NewReader(m.Data))
		out = append(out, Decoded{Name: m.Name, Beatmap: b, Err: err})
	}
	return out, nil
}
