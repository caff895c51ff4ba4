package source

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
	"github.com/go-flac/flacpicture"
	flac "github.com/go-flac/go-flac"
)

// picture is one embedded or sidecar cover image.
type picture struct {
	data []byte
	mime string
}

// pictureReader returns the cover embedded in an audio file, or nil.
type pictureReader func(path string) (*picture, error)

// embeddedReaders lists, per extension, the readers tried in order. The
// format-specific readers prefer the front cover over other pictures.
var embeddedReaders = map[string][]pictureReader{
	".mp3":  {readID3Picture, readTagPicture},
	".flac": {readFLACPicture, readTagPicture},
	".m4a":  {readTagPicture},
	".ogg":  {readTagPicture},
}

// sidecarNames are the cover files looked up next to an audio file, by
// priority. Matching ignores case.
var sidecarNames = []string{
	"cover", "folder", "front", "album", "artwork",
}

var sidecarTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// IsAudioFile reports whether path names an audio file whose cover art can
// stand in for an image.
func IsAudioFile(path string) bool {
	_, ok := embeddedReaders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ExtractCoverArt reads cover art for an audio file.
// Embedded art wins; otherwise cover files in the same directory are
// tried. Returns nil data when no art is found.
func ExtractCoverArt(path string) (data []byte, mimeType string, err error) {
	if _, err := os.Stat(path); err != nil {
		return nil, "", err
	}

	// Unreadable tags fall through to the sidecar lookup.
	for _, read := range embeddedReaders[strings.ToLower(filepath.Ext(path))] {
		if pic, err := read(path); err == nil && pic != nil {
			return pic.data, pic.mime, nil
		}
	}

	pic, err := sidecarPicture(filepath.Dir(path))
	if err != nil {
		return nil, "", err
	}
	if pic != nil {
		return pic.data, pic.mime, nil
	}
	return nil, "", nil
}

func readTagPicture(path string) (*picture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, err
	}
	if p := m.Picture(); p != nil && len(p.Data) > 0 {
		return &picture{data: p.Data, mime: p.MIMEType}, nil
	}
	return nil, nil
}

func readID3Picture(path string) (*picture, error) {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: []string{"Attached picture"}})
	if err != nil {
		return nil, err
	}
	defer t.Close()

	var best *picture
	for _, frame := range t.GetFrames(t.CommonID("Attached picture")) {
		pf, ok := frame.(id3v2.PictureFrame)
		if !ok || len(pf.Picture) == 0 {
			continue
		}
		if pf.PictureType == id3v2.PTFrontCover {
			return &picture{data: pf.Picture, mime: pf.MimeType}, nil
		}
		if best == nil {
			best = &picture{data: pf.Picture, mime: pf.MimeType}
		}
	}
	return best, nil
}

func readFLACPicture(path string) (*picture, error) {
	f, err := flac.ParseFile(path)
	if err != nil {
		return nil, err
	}

	var best *picture
	for _, meta := range f.Meta {
		if meta.Type != flac.Picture {
			continue
		}
		pic, err := flacpicture.ParseFromMetaDataBlock(*meta)
		if err != nil || len(pic.ImageData) == 0 {
			continue
		}
		if pic.PictureType == flacpicture.PictureTypeFrontCover {
			return &picture{data: pic.ImageData, mime: pic.MIME}, nil
		}
		if best == nil {
			best = &picture{data: pic.ImageData, mime: pic.MIME}
		}
	}
	return best, nil
}

// sidecarPicture finds the highest priority cover file in dir.
func sidecarPicture(dir string) (*picture, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	bestRank := len(sidecarNames)
	var bestName, bestMime string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		ext := filepath.Ext(name)
		mime, ok := sidecarTypes[ext]
		if !ok {
			continue
		}
		rank := slices.Index(sidecarNames, strings.TrimSuffix(name, ext))
		if rank < 0 || rank >= bestRank {
			continue
		}
		bestRank, bestName, bestMime = rank, e.Name(), mime
	}
	if bestName == "" {
		return nil, nil
	}

	data, err := os.ReadFile(filepath.Join(dir, bestName))
	if err != nil {
		return nil, err
	}
	return &picture{data: data, mime: bestMime}, nil
}
