package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tasklog/config"
	"tasklog/project"
	"tasklog/worklog"
)

var (
	projectDBPath string
	projectForm   project.Form
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Create, edit and list projects.",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project",
	Long: `Create a project from the given fields.

When --code is omitted it is derived from the name by keeping upper-case
letters, digits and underscores.`,
	Example: `
  tasklog project create --name "Big Film" --fps 24
  tasklog project create --name "ACME Commercial" --code ACME --image-format HD --width 1920 --height 1080
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		form := projectForm
		if !cmd.Flags().Changed("code") {
			form.Code = project.DeriveCode(form.Name)
		}
		if !cmd.Flags().Changed("fps") {
			form.FPS = cfg.Project.DefaultFPS
		}
		if !cmd.Flags().Changed("status") && len(cfg.Project.Statuses) > 0 {
			form.Status = cfg.Project.Statuses[0]
		}

		if err := validateProjectForm(os.Stdout, cfg, form); err != nil {
			return err
		}

		store, err := openStore(projectDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		var created worklog.Project
		form.Apply(&created)
		id, err := store.CreateProject(created)
		if err != nil {
			return err
		}
		fmt.Printf("Project created. ID: %d, Code: %s\n", id, created.Code)
		return nil
	},
}

var projectEditCmd = &cobra.Command{
	Use:   "edit <code>",
	Short: "Edit a project",
	Long:  `Change the fields given as flags; all other fields keep their current value.`,
	Example: `
  tasklog project edit BF --status CMPL
  tasklog project edit BF --code BIGFILM
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		store, err := openStore(projectDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		existing, err := store.GetProjectByCode(args[0])
		if err != nil {
			return err
		}

		form := mergeProjectForm(project.FormFromProject(existing), projectForm, cmd.Flags())
		if err := validateProjectForm(os.Stdout, cfg, form); err != nil {
			return err
		}

		form.Apply(&existing)
		if err := store.UpdateProject(existing); err != nil {
			return err
		}
		fmt.Printf("Project updated. ID: %d, Code: %s\n", existing.ID, existing.Code)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(projectDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		projects, err := store.ListProjects()
		if err != nil {
			return err
		}
		for _, p := range projects {
			fmt.Printf("%d\t%s\t%s\t%s\t%d fps\n", p.ID, p.Code, p.Name, p.Status, p.FPS)
		}
		return nil
	},
}

// mergeProjectForm overlays the flags the user actually set onto current.
func mergeProjectForm(current, flags project.Form, set *pflag.FlagSet) project.Form {
	merged := current
	if set.Changed("name") {
		merged.Name = flags.Name
	}
	if set.Changed("code") {
		merged.Code = flags.Code
	}
	if set.Changed("type") {
		merged.Type = flags.Type
	}
	if set.Changed("status") {
		merged.Status = flags.Status
	}
	if set.Changed("fps") {
		merged.FPS = flags.FPS
	}
	if set.Changed("image-format") {
		merged.ImageFormat = flags.ImageFormat
	}
	if set.Changed("width") {
		merged.ImageWidth = flags.ImageWidth
	}
	if set.Changed("height") {
		merged.ImageHeight = flags.ImageHeight
	}
	if set.Changed("repository") {
		merged.Repository = flags.Repository
	}
	if set.Changed("structure") {
		merged.Structure = flags.Structure
	}
	return merged
}

// validateProjectForm prints one line per invalid field before returning the error.
func validateProjectForm(out io.Writer, cfg *config.Config, form project.Form) error {
	err := project.NewValidator(cfg.Project.Statuses).Validate(form)
	var fieldErrs project.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintf(out, "  %s: %s\n", strings.ToLower(field), fieldErrs[field])
	}
	return fmt.Errorf("project form has %d invalid field(s)", len(fieldErrs))
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectCreateCmd, projectEditCmd, projectListCmd)

	projectCmd.PersistentFlags().StringVar(&projectDBPath, "db", "", "Path to local SQLite database (default: database.path from config)")
	for _, command := range []*cobra.Command{projectCreateCmd, projectEditCmd} {
		flags := command.Flags()
		flags.StringVar(&projectForm.Name, "name", "", "Project name (letters, digits, space, - and _)")
		flags.StringVar(&projectForm.Code, "code", "", "Project code, up to 16 letters, digits or _")
		flags.StringVar(&projectForm.Type, "type", "", "Project type")
		flags.StringVar(&projectForm.Status, "status", "", "Project status (see project.statuses in config)")
		flags.IntVar(&projectForm.FPS, "fps", 0, "Frames per second (default: project.default_fps from config)")
		flags.StringVar(&projectForm.ImageFormat, "image-format", "", "Image format name")
		flags.IntVar(&projectForm.ImageWidth, "width", 0, "Image width in pixels")
		flags.IntVar(&projectForm.ImageHeight, "height", 0, "Image height in pixels")
		flags.StringVar(&projectForm.Repository, "repository", "", "Repository path")
		flags.StringVar(&projectForm.Structure, "structure", "", "Folder structure template")
	}
}
