package hcl_adapter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/ridgegrow/internal/config"
	"github.com/vk/ridgegrow/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under paths and merges the blocks into one
// model. Engine attributes missing from all files take their defaults.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(hclFiles) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	evalCtx := newEvalContext()
	model := &config.Model{}

	var engine, mesh *string
	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		if root.Engine != nil {
			if engine != nil {
				return nil, fmt.Errorf("engine block in %s: already defined in %s", file, *engine)
			}
			engine = &file
			if model.Engine, err = l.translateEngine(ctx, evalCtx, root.Engine); err != nil {
				return nil, fmt.Errorf("engine block in %s: %w", file, err)
			}
		}
		if root.Mesh != nil {
			if mesh != nil {
				return nil, fmt.Errorf("mesh block in %s: already defined in %s", file, *mesh)
			}
			mesh = &file
			if model.Mesh, err = l.translateMesh(ctx, evalCtx, root.Mesh); err != nil {
				return nil, fmt.Errorf("mesh block in %s: %w", file, err)
			}
		}
		for _, r := range root.Rivers {
			river, err := l.translateRiver(evalCtx, r)
			if err != nil {
				return nil, fmt.Errorf("river %q in %s: %w", r.Name, file, err)
			}
			model.Rivers = append(model.Rivers, river)
		}
		for _, lk := range root.Lakes {
			lake, err := l.translateLake(evalCtx, lk)
			if err != nil {
				return nil, fmt.Errorf("lake %q in %s: %w", lk.Name, file, err)
			}
			model.Lakes = append(model.Lakes, lake)
		}
	}

	if mesh == nil {
		return nil, errors.New("no mesh block found")
	}
	if engine == nil {
		logger.Debug("No engine block found, using defaults.")
		if model.Engine, err = l.translateEngine(ctx, evalCtx, &EngineBlock{}); err != nil {
			return nil, err
		}
	}

	logger.Debug("HCL loading complete.",
		"vertices", len(model.Mesh.Vertices),
		"triangles", len(model.Mesh.Triangles),
		"rivers", len(model.Rivers),
		"lakes", len(model.Lakes),
	)
	return model, nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			err := filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && filepath.Ext(p) == ".hcl" {
					if _, wasSeen := seen[p]; !wasSeen {
						allFiles = append(allFiles, p)
						seen[p] = struct{}{}
					}
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else if filepath.Ext(path) == ".hcl" {
			if _, wasSeen := seen[path]; !wasSeen {
				allFiles = append(allFiles, path)
				seen[path] = struct{}{}
			}
		}
	}
	return allFiles, nil
}
