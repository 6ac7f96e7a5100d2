package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/discover"
)

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct {
	Folder string `short:"f" help:"Only list the folder with this source key"`
}

func (d *DiscoverCmd) Run(_ *Global, root *CLI) error {
	project, err := loadProject(root.Config)
	if err != nil {
		return err
	}

	listings, err := discoverFolders(project, d.Folder)
	if err != nil {
		return err
	}

	total := 0
	for _, l := range listings {
		label := l.Source
		if l.Root {
			label = "root " + label
		}
		fmt.Printf("%s (%s, %s): %d files\n", label, l.Dir, l.Traversal, len(l.Files))
		for _, f := range l.Files {
			fmt.Printf("  %s\n", f)
		}
		total += len(l.Files)
	}
	fmt.Printf("Discovered %d files in %d folders\n", total, len(listings))
	return nil
}

// folderListing is the discovery result of one build group.
type folderListing struct {
	Source    string
	Dir       string // source directory relative to the project root
	Traversal config.Traversal
	Files     []string // relative to the project root, discovery order
	Root      bool     // the optional root group rather than a folder
}

// discoverFolders lists, per build group in declared order, the files
// discovery would feed the pipeline. No stage runs and nothing is written.
// With only set, just the folder with that source key is listed.
func discoverFolders(project *config.Project, only string) ([]folderListing, error) {
	specs := make([]config.FolderSpec, 0, len(project.Build.Folders)+1)
	rootIdx := -1
	specs = append(specs, project.Build.Folders...)
	if project.Build.Root != nil {
		rootIdx = len(specs)
		specs = append(specs, *project.Build.Root)
	}

	var listings []folderListing
	for i, spec := range specs {
		if only != "" && spec.Source != only {
			continue
		}

		srcPath, ok := project.SourcePath(spec.Source)
		if !ok {
			return nil, fmt.Errorf("folder %d: unknown source %q", i, spec.Source)
		}
		files, err := discover.List(srcPath, spec.Recursive())
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", spec.Source, err)
		}

		listings = append(listings, folderListing{
			Source:    spec.Source,
			Dir:       relToRoot(project.Root, srcPath),
			Traversal: spec.Traversal,
			Files:     relAll(project.Root, files),
			Root:      i == rootIdx,
		})
	}

	if only != "" && len(listings) == 0 {
		return nil, fmt.Errorf("folder %q not found in configuration", only)
	}
	return listings, nil
}

func relToRoot(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}

func relAll(root string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = relToRoot(root, p)
	}
	return out
}
