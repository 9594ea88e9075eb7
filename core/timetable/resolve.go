package timetable

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/iiw24/turma/core"
)

type location struct {
	folder string
	file   string
}

var (
	// classes whose document does not follow the <letters>/<name>.mdx layout
	classLocations = map[string]location{
		"eadtma2025": {folder: "tmaead", file: "eadtma2025.mdx"},
		"eadsp2025":  {folder: "tspead", file: "eadsp2025.mdx"},
		"eadst2025":  {folder: "tstead", file: "eadst2025.mdx"},
		"eadtl2025":  {folder: "tlead", file: "eadtl2025.mdx"},
		"tads_esp":   {folder: "tads", file: "tads_especial.mdx"},
	}

	leadingLetters = regexp.MustCompile(`^[a-z]+`)
)

const docExt = ".mdx"

// ClassURL returns the raw URL of the document of className under baseURL.
// The document may not exist: that is only found out when fetching it.
func ClassURL(baseURL, className string) (string, error) {
	name := core.CleanString(className, true /* lower */)
	if name == "" {
		return "", errors.Wrap(ErrNotFound, "empty class name")
	}

	loc, ok := classLocations[name]
	if !ok {
		folder := leadingLetters.FindString(name)
		if folder == "" {
			return "", errors.Wrapf(ErrNotFound, "cannot derive folder of %q", name)
		}
		loc = location{folder: folder, file: name + docExt}
	}
	return joinURL(baseURL, loc.folder, loc.file), nil
}

func joinURL(base string, parts ...string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.Join(parts, "/")
}
