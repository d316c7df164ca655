package task

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/bornholm/taskmanager/internal/command/common"
	"github.com/bornholm/taskmanager/internal/core/model"
	"github.com/bornholm/taskmanager/internal/http/handler/api"
	"github.com/bornholm/taskmanager/pkg/client"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
)

const (
	flagTitle       = "title"
	flagDescription = "description"
	flagCompleted   = "completed"
	flagJSON        = "json"
	flagPage        = "page"
	flagLimit       = "limit"
)

func Commands() []*cli.Command {
	return []*cli.Command{
		listCommand(),
		getCommand(),
		createCommand(),
		updateCommand(),
		completeCommand(),
		deleteCommand(),
	}
}

func listCommand() *cli.Command {
	flags := common.WithCommonFlags(
		&cli.BoolFlag{
			Name:  flagCompleted,
			Usage: "Only list tasks with the given completion state",
		},
		&cli.IntFlag{
			Name:  flagPage,
			Usage: "Zero based page index, requires --limit",
		},
		&cli.IntFlag{
			Name:  flagLimit,
			Usage: "Maximum number of tasks to list",
		},
		jsonFlag(),
	)

	return &cli.Command{
		Name:   "list",
		Usage:  "List tasks",
		Flags:  flags,
		Before: altsrc.InitInputSourceWithContext(flags, common.NewFileSourceFromFlagFunc("config")),
		Action: func(cCtx *cli.Context) error {
			taskClient, err := common.GetClient(cCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			var funcs []client.ListTasksOptionFunc

			if cCtx.IsSet(flagCompleted) {
				funcs = append(funcs, client.WithCompleted(cCtx.Bool(flagCompleted)))
			}

			if cCtx.IsSet(flagLimit) {
				funcs = append(funcs, client.WithPagination(cCtx.Int(flagPage), cCtx.Int(flagLimit)))
			}

			tasks, err := taskClient.ListTasks(cCtx.Context, funcs...)
			if err != nil {
				return errors.Wrap(err, "could not list tasks")
			}

			if cCtx.Bool(flagJSON) {
				return writeJSON(cCtx.App.Writer, tasks)
			}

			return writeTable(cCtx.App.Writer, tasks...)
		},
	}
}

func getCommand() *cli.Command {
	flags := common.WithCommonFlags(jsonFlag())

	return &cli.Command{
		Name:      "get",
		Usage:     "Show a task",
		ArgsUsage: "<id>",
		Flags:     flags,
		Before:    altsrc.InitInputSourceWithContext(flags, common.NewFileSourceFromFlagFunc("config")),
		Action: func(cCtx *cli.Context) error {
			taskClient, taskID, err := getClientAndTaskID(cCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			task, err := taskClient.GetTask(cCtx.Context, taskID)
			if err != nil {
				return errors.Wrapf(err, "could not retrieve task %s", taskID)
			}

			return writeTask(cCtx, task)
		},
	}
}

func createCommand() *cli.Command {
	flags := common.WithCommonFlags(
		&cli.StringFlag{
			Name:     flagTitle,
			Aliases:  []string{"t"},
			Usage:    "Task title",
			Required: true,
		},
		&cli.StringFlag{
			Name:    flagDescription,
			Aliases: []string{"d"},
			Usage:   "Task description",
		},
		&cli.BoolFlag{
			Name:  flagCompleted,
			Usage: "Mark the task as completed",
		},
		jsonFlag(),
	)

	return &cli.Command{
		Name:   "create",
		Usage:  "Create a task",
		Flags:  flags,
		Before: altsrc.InitInputSourceWithContext(flags, common.NewFileSourceFromFlagFunc("config")),
		Action: func(cCtx *cli.Context) error {
			taskClient, err := common.GetClient(cCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			task, err := taskClient.CreateTask(cCtx.Context, api.TaskPayload{
				Title:       cCtx.String(flagTitle),
				Description: cCtx.String(flagDescription),
				Completed:   cCtx.Bool(flagCompleted),
			})
			if err != nil {
				return errors.Wrap(err, "could not create task")
			}

			return writeTask(cCtx, task)
		},
	}
}

func updateCommand() *cli.Command {
	flags := common.WithCommonFlags(
		&cli.StringFlag{
			Name:    flagTitle,
			Aliases: []string{"t"},
			Usage:   "New task title",
		},
		&cli.StringFlag{
			Name:    flagDescription,
			Aliases: []string{"d"},
			Usage:   "New task description",
		},
		&cli.BoolFlag{
			Name:  flagCompleted,
			Usage: "New task completion state",
		},
		jsonFlag(),
	)

	return &cli.Command{
		Name:      "update",
		Usage:     "Update a task, omitted fields are left unchanged",
		ArgsUsage: "<id>",
		Flags:     flags,
		Before:    altsrc.InitInputSourceWithContext(flags, common.NewFileSourceFromFlagFunc("config")),
		Action: func(cCtx *cli.Context) error {
			return updateTask(cCtx, func(payload *api.TaskPayload) {
				if cCtx.IsSet(flagTitle) {
					payload.Title = cCtx.String(flagTitle)
				}

				if cCtx.IsSet(flagDescription) {
					payload.Description = cCtx.String(flagDescription)
				}

				if cCtx.IsSet(flagCompleted) {
					payload.Completed = cCtx.Bool(flagCompleted)
				}
			})
		},
	}
}

func completeCommand() *cli.Command {
	flags := common.WithCommonFlags(jsonFlag())

	return &cli.Command{
		Name:      "complete",
		Usage:     "Mark a task as completed",
		ArgsUsage: "<id>",
		Flags:     flags,
		Before:    altsrc.InitInputSourceWithContext(flags, common.NewFileSourceFromFlagFunc("config")),
		Action: func(cCtx *cli.Context) error {
			return updateTask(cCtx, func(payload *api.TaskPayload) {
				payload.Completed = true
			})
		},
	}
}

func deleteCommand() *cli.Command {
	flags := common.WithCommonFlags()

	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a task",
		ArgsUsage: "<id>",
		Flags:     flags,
		Before:    altsrc.InitInputSourceWithContext(flags, common.NewFileSourceFromFlagFunc("config")),
		Action: func(cCtx *cli.Context) error {
			taskClient, taskID, err := getClientAndTaskID(cCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			if err := taskClient.DeleteTask(cCtx.Context, taskID); err != nil {
				return errors.Wrapf(err, "could not delete task %s", taskID)
			}

			fmt.Fprintf(cCtx.App.Writer, "task %s deleted\n", taskID)

			return nil
		},
	}
}

// updateTask fetches the task, applies the given changes and replaces it
// on the server.
func updateTask(cCtx *cli.Context, change func(payload *api.TaskPayload)) error {
	taskClient, taskID, err := getClientAndTaskID(cCtx)
	if err != nil {
		return errors.WithStack(err)
	}

	task, err := taskClient.GetTask(cCtx.Context, taskID)
	if err != nil {
		return errors.Wrapf(err, "could not retrieve task %s", taskID)
	}

	payload := api.TaskPayload{
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
	}

	change(&payload)

	updated, err := taskClient.UpdateTask(cCtx.Context, taskID, payload)
	if err != nil {
		return errors.Wrapf(err, "could not update task %s", taskID)
	}

	return writeTask(cCtx, updated)
}

func getClientAndTaskID(cCtx *cli.Context) (*client.Client, model.TaskID, error) {
	if cCtx.NArg() != 1 {
		return nil, 0, errors.New("expected exactly one task id argument")
	}

	taskID, err := model.ParseTaskID(cCtx.Args().First())
	if err != nil {
		return nil, 0, errors.Wrapf(err, "invalid task id '%s'", cCtx.Args().First())
	}

	taskClient, err := common.GetClient(cCtx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return taskClient, taskID, nil
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  flagJSON,
		Usage: "Output as JSON",
	}
}

func writeTask(cCtx *cli.Context, task *api.Task) error {
	if cCtx.Bool(flagJSON) {
		return writeJSON(cCtx.App.Writer, task)
	}

	return writeTable(cCtx.App.Writer, task)
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(v); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func writeTable(w io.Writer, tasks ...*api.Task) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tTITLE\tCOMPLETED\tCREATED\tUPDATED")

	for _, t := range tasks {
		completed := "no"
		if t.Completed {
			completed = "yes"
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Title, completed, humanize.Time(t.CreatedAt), humanize.Time(t.UpdatedAt))
	}

	if err := tw.Flush(); err != nil {
		return errors.WithStack(err)
	}

	return nil
}
