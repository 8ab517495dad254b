// lessonctl is a maintenance tool for stored lesson documents: inspect what
// a document contains, validate it, and migrate pre-layout documents to the
// current schema.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"CourseCanvas/internal/service/lesson/content"
	"CourseCanvas/internal/widget"
	"CourseCanvas/internal/widget/types"
	"CourseCanvas/pkg/logger"
)

func main() {
	root := &cobra.Command{
		Use:           "lessonctl",
		Short:         "Inspect, validate and migrate lesson content documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(inspectCmd(), validateCmd(), migrateCmd())

	if err := root.Execute(); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize a lesson document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			generation := content.DetectGeneration(string(doc))
			switch generation {
			case content.GenerationCurrent:
				color.Green("schema: %s", generation)
			case content.GenerationLegacy:
				color.Yellow("schema: %s (run migrate to upgrade)", generation)
			default:
				color.Red("schema: %s", generation)
			}

			widgets := gjson.GetBytes(doc, "lesson.widgets")
			fmt.Printf("widgets: %d\n", len(widgets.Array()))
			widgets.ForEach(func(_, w gjson.Result) bool {
				fmt.Printf("  %-24s %-22s layout=%v\n",
					w.Get("type").String(),
					w.Get("id").String(),
					w.Get("layout").Exists(),
				)
				return true
			})

			grid := gjson.GetBytes(doc, "lesson.gridConfig")
			if grid.Exists() {
				fmt.Printf("grid: cols=%d rowHeight=%d compact=%s\n",
					grid.Get("cols").Int(),
					grid.Get("rowHeight").Int(),
					grid.Get("compactType").String(),
				)
			}
			return nil
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Run the catalogue's save-time validation over a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			log := logger.Discard()
			registry := widget.NewRegistry(log)
			types.RegisterAll(registry)
			codec := content.NewCodec(log)

			lesson := codec.Decode(string(doc))
			hardErrors := 0
			for _, record := range lesson.Widgets {
				inst := record.Instance()
				entry, ok := registry.Resolve(inst.Type)
				if !ok {
					color.Yellow("%s: unknown widget type %q", inst.ID, inst.Type)
					continue
				}
				validator, ok := entry.Impl.(widget.Validator)
				if !ok {
					continue
				}
				warnings, err := validator.Validate(inst)
				if err != nil {
					color.Red("%s: %v", inst.ID, err)
					hardErrors++
					continue
				}
				for _, w := range warnings {
					color.Yellow("%s: %s", inst.ID, w)
				}
			}
			if hardErrors > 0 {
				return fmt.Errorf("%d widget(s) failed validation", hardErrors)
			}
			color.Green("ok: %d widget(s)", len(lesson.Widgets))
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "migrate <file>",
		Short: "Rewrite a document to the current schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			codec := content.NewCodec(logger.Discard())
			migrated, err := codec.Migrate(string(doc))
			if err != nil {
				return err
			}

			if !write {
				fmt.Println(migrated)
				return nil
			}
			if err := os.WriteFile(args[0], []byte(migrated), 0o644); err != nil {
				return err
			}
			color.Green("migrated %s", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "rewrite the file in place instead of printing")
	return cmd
}
