package manifest

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"text/template"

	"github.com/MarcinMoskala/kscript/pkg/locator"
)

const (
	DefaultRepositoryID  = "central"
	DefaultRepositoryURL = "https://repo.maven.apache.org/maven2/"
)

// Manifest is a synthesized POM declaring the requested dependencies.
type Manifest struct {
	Content []byte
}

// Repository is the single remote repository declared in the POM.
type Repository struct {
	ID  string
	URL string
}

// Option configures Build.
type Option func(*options)

type options struct {
	repository Repository
}

// WithRepository overrides the declared repository. Empty fields keep their default.
func WithRepository(repo Repository) Option {
	return func(o *options) {
		if strings.TrimSpace(repo.ID) != "" {
			o.repository.ID = repo.ID
		}
		if strings.TrimSpace(repo.URL) != "" {
			o.repository.URL = repo.URL
		}
	}
}

var pomTemplate = template.Must(template.New("pom").Funcs(template.FuncMap{
	"xml": escape,
}).Parse(`<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0"
         xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
         xsi:schemaLocation="http://maven.apache.org/POM/4.0.0 http://maven.apache.org/xsd/maven-4.0.0.xsd">

    <modelVersion>4.0.0</modelVersion>

    <groupId>resdep_template</groupId>
    <artifactId>resdep_template</artifactId>
    <version>1.0-SNAPSHOT</version>

    <repositories>
        <repository>
            <id>{{ xml .Repository.ID }}</id>
            <url>{{ xml .Repository.URL }}</url>
        </repository>
    </repositories>

    <dependencies>
{{- range .Locators }}
        <dependency>
            <groupId>{{ xml .Group }}</groupId>
            <artifactId>{{ xml .Artifact }}</artifactId>
            <version>{{ xml .Version }}</version>
{{- if .HasClassifier }}
            <classifier>{{ xml .Classifier }}</classifier>
{{- end }}
        </dependency>
{{- end }}
    </dependencies>
</project>
`))

// Build renders the POM for set. The output only depends on the set and its order.
func Build(set locator.Set, opts ...Option) (Manifest, error) {
	o := options{
		repository: Repository{ID: DefaultRepositoryID, URL: DefaultRepositoryURL},
	}
	for _, opt := range opts {
		opt(&o)
	}

	var buf bytes.Buffer
	data := struct {
		Repository Repository
		Locators   locator.Set
	}{
		Repository: o.repository,
		Locators:   set,
	}
	if err := pomTemplate.Execute(&buf, data); err != nil {
		return Manifest{}, fmt.Errorf("rendering pom: %w", err)
	}

	return Manifest{Content: buf.Bytes()}, nil
}

func escape(s string) (string, error) {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return "", err
	}
	return b.String(), nil
}
