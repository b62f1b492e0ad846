package maven

import (
	"encoding/xml"
	"slices"

	"go.trai.ch/droidcfg/internal/core/domain"
	"go.trai.ch/zerr"
)

// Metadata is the subset of maven-metadata.xml needed to check versions.
type Metadata struct {
	XMLName    xml.Name `xml:"metadata"`
	GroupID    string   `xml:"groupId"`
	ArtifactID string   `xml:"artifactId"`
	Versioning struct {
		Latest   string   `xml:"latest"`
		Release  string   `xml:"release"`
		Versions []string `xml:"versions>version"`
	} `xml:"versioning"`
}

// ParseMetadata decodes a maven-metadata.xml document.
func ParseMetadata(data []byte) (*Metadata, error) {
	var m Metadata
	if err := xml.Unmarshal(data, &m); err != nil {
		return nil, zerr.Wrap(err, domain.ErrRepositoryParseFailed.Error())
	}
	return &m, nil
}

// HasVersion reports whether version is listed.
func (m *Metadata) HasVersion(version string) bool {
	return slices.Contains(m.Versioning.Versions, version)
}

// LatestVersion returns the newest advertised version.
func (m *Metadata) LatestVersion() string {
	switch {
	case m.Versioning.Release != "":
		return m.Versioning.Release
	case m.Versioning.Latest != "":
		return m.Versioning.Latest
	case len(m.Versioning.Versions) > 0:
		return m.Versioning.Versions[len(m.Versioning.Versions)-1]
	default:
		return ""
	}
}
