package buildinfo

// These are meant to be injected at build time via -ldflags, e.g.:
//
//	-X github.com/goksgie/basic-myanimelist-crawler/internal/buildinfo.Version=v0.1.0
//	-X github.com/goksgie/basic-myanimelist-crawler/internal/buildinfo.Commit=abcdef
//	-X github.com/goksgie/basic-myanimelist-crawler/internal/buildinfo.Date=2026-08-27
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"date,omitempty"`
}

func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}
