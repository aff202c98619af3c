package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"task-tracker/client"
	"task-tracker/models"
)

const usage = `usage: taskctl [-api URL] <command> [args]

commands:
  list                 list tasks, newest first
  add <title>          create a task
  done <id>            mark a task done
  undone <id>          mark a task not done
  toggle <id>          flip a task's done state
  rename <id> <title>  change a task's title
  rm <id>              delete a task
`

func main() {
	_ = godotenv.Load()

	defaultURL := os.Getenv("TASK_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:3001"
	}
	api := flag.String("api", defaultURL, "base URL of the task API (env TASK_API_URL)")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := run(ctx, client.New(*api), flag.Args(), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("invalid arguments, run taskctl -h")

func run(ctx context.Context, c *client.Client, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "list", "ls":
		tasks, err := c.List(ctx)
		if err != nil {
			return err
		}
		printTasks(out, tasks)
		return nil

	case "add":
		if len(rest) == 0 {
			return errUsage
		}
		task, err := c.Create(ctx, strings.Join(rest, " "))
		if err != nil {
			return err
		}
		printTasks(out, []models.Task{task})
		return nil

	case "done", "undone", "toggle", "rm":
		if len(rest) != 1 {
			return errUsage
		}
		id, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid task id %q", rest[0])
		}
		return runByID(ctx, c, cmd, id, out)

	case "rename":
		if len(rest) < 2 {
			return errUsage
		}
		id, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid task id %q", rest[0])
		}
		task, err := c.Rename(ctx, id, strings.Join(rest[1:], " "))
		if err != nil {
			return err
		}
		printTasks(out, []models.Task{task})
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func runByID(ctx context.Context, c *client.Client, cmd string, id int64, out io.Writer) error {
	var (
		task models.Task
		err  error
	)
	switch cmd {
	case "rm":
		if err := c.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(out, "deleted %d\n", id)
		return nil
	case "done":
		task, err = c.SetDone(ctx, id, true)
	case "undone":
		task, err = c.SetDone(ctx, id, false)
	case "toggle":
		task, err = toggle(ctx, c, id)
	}
	if err != nil {
		return err
	}
	printTasks(out, []models.Task{task})
	return nil
}

// toggle needs the current state, the API has no per-id read.
func toggle(ctx context.Context, c *client.Client, id int64) (models.Task, error) {
	tasks, err := c.List(ctx)
	if err != nil {
		return models.Task{}, err
	}
	for _, t := range tasks {
		if t.ID == id {
			return c.Toggle(ctx, t)
		}
	}
	return models.Task{}, fmt.Errorf("task %d: Not found", id)
}

func printTasks(out io.Writer, tasks []models.Task) {
	for _, t := range tasks {
		mark := " "
		if t.IsDone {
			mark = "x"
		}
		fmt.Fprintf(out, "[%s] %4d  %s  (%s)\n", mark, t.ID, t.Title, t.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
}
