package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atulkashyap404/taskmaster/internal/config"
	"github.com/atulkashyap404/taskmaster/internal/filter"
	"github.com/atulkashyap404/taskmaster/internal/model"
	"github.com/atulkashyap404/taskmaster/internal/stats"
	"github.com/atulkashyap404/taskmaster/internal/store"
	"github.com/atulkashyap404/taskmaster/internal/ui"
)

// Options wires the runner to its store, config and terminal.
type Options struct {
	Group  bool // list grouped by active/completed
	Config *config.Config
	Store  *store.Store
	Stdout io.Writer
	Stderr io.Writer
	Now    func() time.Time
	// Interactive runs the dashboard; `tui` and a bare invocation call it.
	Interactive func(*store.Store, *config.Config) error
}

func (o *Options) defaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Config == nil {
		o.Config = config.Default()
	}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	opt.defaults()
	if opt.Store == nil {
		ui.Fail(opt.Stderr, "no store configured")
		return 1
	}
	if len(args) == 0 {
		return doInteractive(opt)
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Stdout)
		return 0
	case "tui":
		return doInteractive(opt)
	case "ls", "list":
		return doList(opt, a)
	case "add":
		return doAdd(opt, a)
	case "done", "toggle":
		if len(a) != 1 {
			ui.Fail(opt.Stderr, "usage: taskmaster done <ref>")
			return 2
		}
		return doToggle(opt, a[0])
	case "rm", "delete":
		if len(a) != 1 {
			ui.Fail(opt.Stderr, "usage: taskmaster rm <ref>")
			return 2
		}
		return doRemove(opt, a[0])
	case "edit":
		return doEdit(opt, a)
	case "stats":
		return doStats(opt)
	}

	ui.Fail(opt.Stderr, "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.Stderr)
	PrintHelp(opt.Stderr)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `taskmaster - track, filter and complete your tasks

Usage:
  taskmaster [global flags] <subcommand> [args]

Subcommands:
  tui                         Interactive dashboard (default)
  add <title...> [flags]      Add a todo
      -d <text>               description
      -p low|medium|high      priority (default medium)
      -c <category>           personal|work|shopping|health|other (default personal)
      --due YYYY-MM-DD        due date
  ls [flags]                  List todos, newest first
      -s <text>               search titles
      -p <priority|all>       filter by priority
      -c <category|all>       filter by category
      --status all|active|completed
      --group                 group by active/completed
  done <ref>                  Toggle completion
  rm <ref>                    Delete a todo
  edit <ref> [flags]          Change fields (--title, -d, -p, -c, --due, --no-due)
  stats                       Show counters and completion rate

A <ref> is a 1-based list position, a full ID or a unique ID prefix.

Global flags:
  --config <file>  --storage json|sqlite  --data-dir <dir>  --slot <name>
  --theme classic|neon|mono  --log-level <level>  --log-format text|json|logfmt

Examples:
  taskmaster add "Buy milk" -p low -c shopping
  taskmaster ls --status active
  taskmaster done 2
  taskmaster rm 3f2a
`)
}

// -------------- subcommand impls ----------------

func doInteractive(opt Options) int {
	if opt.Interactive == nil {
		ui.Fail(opt.Stderr, "interactive mode unavailable")
		return 1
	}
	if err := opt.Interactive(opt.Store, opt.Config); err != nil {
		ui.Fail(opt.Stderr, "tui: "+err.Error())
		return 1
	}
	return 0
}

func doList(opt Options, args []string) int {
	fs := newFlagSet("ls", opt.Stderr)
	search := fs.String("s", "", "search titles")
	prio := fs.String("p", filter.All, "priority filter")
	cat := fs.String("c", filter.All, "category filter")
	status := fs.String("status", string(filter.StatusAll), "status filter")
	group := fs.Bool("group", opt.Group, "group by active/completed")
	if _, err := parseInterspersed(fs, args); err != nil {
		return 2
	}

	crit := filter.Criteria{Search: *search}
	var err error
	if crit.Priority, err = filter.ParsePriority(*prio); err != nil {
		ui.Fail(opt.Stderr, "ls: "+err.Error())
		return 2
	}
	if crit.Category, err = filter.ParseCategory(*cat); err != nil {
		ui.Fail(opt.Stderr, "ls: "+err.Error())
		return 2
	}
	if crit.Status, err = filter.ParseStatus(*status); err != nil {
		ui.Fail(opt.Stderr, "ls: "+err.Error())
		return 2
	}

	all := opt.Store.Todos()
	shown := filter.Apply(all, crit)
	pos := positions(all)
	sum := stats.ComputeWindow(all, opt.Now(), dueSoonWindow(opt.Config))

	var lines []string
	lines = append(lines, ui.Header(sum))
	lines = append(lines, ui.MutedStyle.Render(ui.ProgressBar(sum.CompletionRate, 28)))
	if !crit.Identity() {
		lines = append(lines, ui.MutedStyle.Render(fmt.Sprintf("showing %d of %d", len(shown), len(all))))
	}
	lines = append(lines, "")

	if *group {
		lines = append(lines, groupLines(shown, pos)...)
	} else {
		lines = append(lines, ui.ListLines(shown, pos)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.MutedStyle.Render("Tip: add with `taskmaster add \"Water plants\" -c personal`"))
	fmt.Fprintln(opt.Stdout, ui.Panel(lines))
	return 0
}

func doAdd(opt Options, args []string) int {
	fs := newFlagSet("add", opt.Stderr)
	desc := fs.String("d", "", "description")
	prio := fs.String("p", string(model.PriorityMedium), "priority")
	cat := fs.String("c", string(model.CategoryPersonal), "category")
	due := fs.String("due", "", "due date (YYYY-MM-DD)")
	rest, err := parseInterspersed(fs, args)
	if err != nil {
		return 2
	}

	title := strings.TrimSpace(strings.Join(rest, " "))
	if title == "" {
		ui.Fail(opt.Stderr, "usage: taskmaster add <title...> [-d desc] [-p priority] [-c category] [--due YYYY-MM-DD]")
		return 2
	}
	d := model.NewDraft(title)
	d.Description = strings.TrimSpace(*desc)
	if d.Priority, err = model.ParsePriority(*prio); err != nil {
		ui.Fail(opt.Stderr, "add: "+err.Error())
		return 2
	}
	if d.Category, err = model.ParseCategory(*cat); err != nil {
		ui.Fail(opt.Stderr, "add: "+err.Error())
		return 2
	}
	if *due != "" {
		t, err := model.ParseDue(*due)
		if err != nil {
			ui.Fail(opt.Stderr, "add: "+err.Error())
			return 2
		}
		d.DueDate = &t
	}

	t := opt.Store.Add(d)
	if code := saved(opt); code != 0 {
		return code
	}
	ui.OK(opt.Stdout, "added "+ui.ShortID(t.ID))
	return 0
}

func doToggle(opt Options, ref string) int {
	t, code := resolve(opt, ref)
	if code != 0 {
		return code
	}
	opt.Store.Toggle(t.ID)
	if code := saved(opt); code != 0 {
		return code
	}
	if t.Completed {
		ui.OK(opt.Stdout, "reopened "+ui.ShortID(t.ID))
	} else {
		ui.OK(opt.Stdout, "completed "+ui.ShortID(t.ID))
	}
	return 0
}

func doRemove(opt Options, ref string) int {
	t, code := resolve(opt, ref)
	if code != 0 {
		return code
	}
	opt.Store.Delete(t.ID)
	if code := saved(opt); code != 0 {
		return code
	}
	ui.OK(opt.Stdout, "removed "+ui.ShortID(t.ID))
	return 0
}

func doEdit(opt Options, args []string) int {
	fs := newFlagSet("edit", opt.Stderr)
	title := fs.String("title", "", "new title")
	desc := fs.String("d", "", "new description")
	prio := fs.String("p", "", "new priority")
	cat := fs.String("c", "", "new category")
	due := fs.String("due", "", "new due date (YYYY-MM-DD)")
	noDue := fs.Bool("no-due", false, "clear the due date")
	rest, err := parseInterspersed(fs, args)
	if err != nil {
		return 2
	}
	if len(rest) != 1 {
		ui.Fail(opt.Stderr, "usage: taskmaster edit <ref> [--title t] [-d desc] [-p priority] [-c category] [--due date|--no-due]")
		return 2
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	var p model.Patch
	if set["title"] {
		v := strings.TrimSpace(*title)
		if v == "" {
			ui.Fail(opt.Stderr, "edit: empty title")
			return 2
		}
		p.Title = &v
	}
	if set["d"] {
		v := strings.TrimSpace(*desc)
		p.Description = &v
	}
	if set["p"] {
		v, err := model.ParsePriority(*prio)
		if err != nil {
			ui.Fail(opt.Stderr, "edit: "+err.Error())
			return 2
		}
		p.Priority = &v
	}
	if set["c"] {
		v, err := model.ParseCategory(*cat)
		if err != nil {
			ui.Fail(opt.Stderr, "edit: "+err.Error())
			return 2
		}
		p.Category = &v
	}
	if set["due"] && *noDue {
		ui.Fail(opt.Stderr, "edit: --due and --no-due are exclusive")
		return 2
	}
	if set["due"] {
		v, err := model.ParseDue(*due)
		if err != nil {
			ui.Fail(opt.Stderr, "edit: "+err.Error())
			return 2
		}
		p.DueDate = &v
	}
	p.ClearDue = *noDue
	if p.Empty() {
		ui.Fail(opt.Stderr, "edit: nothing to change")
		return 2
	}

	t, code := resolve(opt, rest[0])
	if code != 0 {
		return code
	}
	opt.Store.Update(t.ID, p)
	if code := saved(opt); code != 0 {
		return code
	}
	ui.OK(opt.Stdout, "updated "+ui.ShortID(t.ID))
	return 0
}

func doStats(opt Options) int {
	sum := stats.ComputeWindow(opt.Store.Todos(), opt.Now(), dueSoonWindow(opt.Config))
	fmt.Fprintln(opt.Stdout, ui.StatsPanel(sum, opt.Config.UI.DueSoonDays, 0))
	return 0
}

// -------------- helpers --------------

func resolve(opt Options, ref string) (model.Todo, int) {
	t, err := opt.Store.Resolve(ref)
	if err == nil {
		return t, 0
	}
	ui.Fail(opt.Stderr, err.Error())
	if errors.Is(err, store.ErrNotFound) {
		fmt.Fprintln(opt.Stderr, ui.MutedStyle.Render("Hint: run `taskmaster ls` to see valid references"))
	}
	return model.Todo{}, 2
}

func saved(opt Options) int {
	if err := opt.Store.Err(); err != nil {
		ui.Fail(opt.Stderr, "save: "+err.Error())
		return 1
	}
	return 0
}

func dueSoonWindow(cfg *config.Config) time.Duration {
	return time.Duration(cfg.UI.DueSoonDays) * 24 * time.Hour
}

func positions(all []model.Todo) func(model.Todo) int {
	idx := make(map[string]int, len(all))
	for i, t := range all {
		idx[t.ID] = i + 1
	}
	return func(t model.Todo) int { return idx[t.ID] }
}

func groupLines(todos []model.Todo, pos func(model.Todo) int) []string {
	var active, done []model.Todo
	for _, t := range todos {
		if t.Completed {
			done = append(done, t)
		} else {
			active = append(active, t)
		}
	}
	var lines []string
	lines = append(lines, ui.AccentStyle.Render("Active"))
	if len(active) == 0 {
		lines = append(lines, ui.MutedStyle.Render("(none)"))
	} else {
		lines = append(lines, ui.ListLines(active, pos)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.AccentStyle.Render("Completed"))
	if len(done) == 0 {
		lines = append(lines, ui.MutedStyle.Render("(none)"))
	} else {
		lines = append(lines, ui.ListLines(done, pos)...)
	}
	return lines
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// parseInterspersed lets flags follow positional args, so
// `add Buy milk -p low` works like `add -p low Buy milk`. Everything after
// a `--` is positional.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var rest []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		left := fs.Args()
		// Parse swallows the terminator, so look at what it consumed last.
		if n := len(args) - len(left); n > 0 && args[n-1] == "--" {
			return append(rest, left...), nil
		}
		if len(left) == 0 {
			return rest, nil
		}
		rest = append(rest, left[0])
		args = left[1:]
	}
}
