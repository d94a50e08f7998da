package metadata

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/sfcore/salesforce/internal/security"
	"github.com/sfcore/salesforce/sferrors"
)

// typeLayout is the static directory/extension mapping for the metadata
// types DeployTyped knows how to package; Directory and Suffix follow
// the conventional src/ layout every metadata deploy zip uses.
type typeLayout struct {
	Directory string
	Suffix    string
}

var knownTypeLayouts = map[string]typeLayout{
	"ApexClass":       {Directory: "classes", Suffix: "cls"},
	"ApexTrigger":     {Directory: "triggers", Suffix: "trigger"},
	"ApexPage":        {Directory: "pages", Suffix: "page"},
	"ApexComponent":   {Directory: "components", Suffix: "component"},
	"CustomObject":    {Directory: "objects", Suffix: "object"},
	"CustomField":     {Directory: "objects", Suffix: "field"},
	"Layout":          {Directory: "layouts", Suffix: "layout"},
	"PermissionSet":   {Directory: "permissionsets", Suffix: "permissionset"},
	"Profile":         {Directory: "profiles", Suffix: "profile"},
	"Flow":            {Directory: "flows", Suffix: "flow"},
	"StaticResource":  {Directory: "staticresources", Suffix: "resource"},
	"Workflow":        {Directory: "workflows", Suffix: "workflow"},
	"CustomTab":       {Directory: "tabs", Suffix: "tab"},
	"CustomLabels":    {Directory: "labels", Suffix: "labels"},
}

// TypedItem is one fully-rendered metadata file to zip, keyed by the
// metadata type that selects its directory/suffix.
type TypedItem struct {
	Type     string
	FullName string
	Body     string // the complete component XML (without the package.xml wrapper)
}

// DeployTyped zips one metadata item with a generated package.xml and
// dispatches it to Deploy.
func (s *Service) DeployTyped(ctx context.Context, apiVersion string, item TypedItem, rollbackOnError, checkOnly bool) (*DeployResult, error) {
	return s.DeployTypedBatch(ctx, apiVersion, []TypedItem{item}, rollbackOnError, checkOnly)
}

// DeployTypedBatch zips multiple metadata items behind one generated
// package.xml and dispatches the result to Deploy.
func (s *Service) DeployTypedBatch(ctx context.Context, apiVersion string, items []TypedItem, rollbackOnError, checkOnly bool) (*DeployResult, error) {
	zipBytes, err := buildPackageZip(apiVersion, items)
	if err != nil {
		return nil, err
	}
	return s.Deploy(ctx, zipBytes, rollbackOnError, false, checkOnly)
}

func buildPackageZip(apiVersion string, items []TypedItem) ([]byte, error) {
	byType := map[string][]string{}
	for _, item := range items {
		_, ok := knownTypeLayouts[item.Type]
		if !ok {
			return nil, sferrors.New(sferrors.KindConfig, fmt.Sprintf("metadata: unknown directory/suffix mapping for type %q", item.Type))
		}
		byType[item.Type] = append(byType[item.Type], item.FullName)
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for _, item := range items {
		layout := knownTypeLayouts[item.Type]
		path := fmt.Sprintf("src/%s/%s.%s", layout.Directory, item.FullName, layout.Suffix)
		f, err := w.Create(path)
		if err != nil {
			return nil, sferrors.Wrap(sferrors.KindSerialization, "failed to add metadata item to deploy zip", err)
		}
		if _, err := f.Write([]byte(item.Body)); err != nil {
			return nil, sferrors.Wrap(sferrors.KindSerialization, "failed to write metadata item body", err)
		}
	}

	pkgXML, err := w.Create("src/package.xml")
	if err != nil {
		return nil, sferrors.Wrap(sferrors.KindSerialization, "failed to add package.xml to deploy zip", err)
	}
	if _, err := pkgXML.Write([]byte(renderPackageXML(apiVersion, byType))); err != nil {
		return nil, sferrors.Wrap(sferrors.KindSerialization, "failed to write package.xml", err)
	}

	if err := w.Close(); err != nil {
		return nil, sferrors.Wrap(sferrors.KindSerialization, "failed to finalize deploy zip", err)
	}
	return buf.Bytes(), nil
}

func renderPackageXML(apiVersion string, byType map[string][]string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(`<Package xmlns="http://soap.sforce.com/2006/04/metadata">` + "\n")
	for typ, members := range byType {
		sb.WriteString("  <types>\n")
		for _, m := range members {
			sb.WriteString("    <members>" + security.EscapeXML(m) + "</members>\n")
		}
		sb.WriteString("    <name>" + security.EscapeXML(typ) + "</name>\n")
		sb.WriteString("  </types>\n")
	}
	sb.WriteString("  <version>" + security.EscapeXML(apiVersion) + "</version>\n")
	sb.WriteString("</Package>\n")
	return sb.String()
}
