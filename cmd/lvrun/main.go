package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"unsafe"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	lvruntime "github.com/lvkit/lv-runtime"
	"github.com/lvkit/lv-runtime/boundary"
	"github.com/lvkit/lv-runtime/cluster"
	"github.com/lvkit/lv-runtime/errors"
	"github.com/lvkit/lv-runtime/manager"
	"github.com/lvkit/lv-runtime/memory"
	"github.com/lvkit/lv-runtime/refnum"
	"github.com/lvkit/lv-runtime/simhost"
	"github.com/lvkit/lv-runtime/types"
)

func main() {
	var (
		interactive = flag.Bool("i", false, "Interactive inspector with TUI")
		maxPages    = flag.Uint("pages", 256, "Simulated host memory limit in 64KiB pages")
	)
	flag.Parse()

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(uint32(*maxPages)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runDemo(uint32(*maxPages)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90"))
	callStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

// runDemo walks the wrappers through a representative session against
// the simulated host and prints the manager trace it produced.
func runDemo(maxPages uint32) error {
	ctx := context.Background()

	host, err := simhost.NewWithConfig(ctx, &simhost.Config{MaxPages: maxPages})
	if err != nil {
		return err
	}
	defer host.Close(ctx)
	tr := manager.NewTrace(host)

	fmt.Println(headingStyle.Render("handle lifecycle"))
	if err := demoHandles(tr); err != nil {
		return err
	}

	fmt.Println(headingStyle.Render("refnum lifecycle"))
	if err := demoRefs(tr); err != nil {
		return err
	}

	fmt.Println(headingStyle.Render("boundary error cluster"))
	demoBoundary(tr)

	fmt.Println(headingStyle.Render("manager trace"))
	for _, c := range tr.Calls() {
		line := fmt.Sprintf("%-14s handle=%-4d cookie=%-4d size=%-6d status=%s",
			c.Op, c.Handle, c.Cookie, c.Size, types.StatusString(c.Status))
		if c.Status.OK() {
			fmt.Println(callStyle.Render(line))
		} else {
			fmt.Println(failStyle.Render(line))
		}
	}
	return nil
}

func demoHandles(m lvruntime.Manager) error {
	h, err := memory.Allocate[uint8](m, 4)
	if err != nil {
		return err
	}
	defer h.Close()

	if err := h.Resize(8); err != nil {
		return err
	}

	view, err := h.Lock()
	if err != nil {
		return err
	}
	copy(view.Slice(), []byte{1, 2, 3, 4, 5, 6, 7, 8})
	view.Unlock()

	view, err = h.Lock()
	if err != nil {
		return err
	}
	fmt.Println(okStyle.Render(fmt.Sprintf("  %d elements after resize: %v", view.Len(), view.Slice())))
	view.Unlock()
	return nil
}

func demoRefs(m lvruntime.Manager) error {
	ref, err := refnum.New[int32](m, nil, 1)
	if err != nil {
		return err
	}
	defer ref.Close()

	pin, err := ref.Lock()
	if err != nil {
		return err
	}
	pin.SetValue(4242)
	fmt.Println(okStyle.Render(fmt.Sprintf("  payload through cookie %d: %d", ref.Cookie(), pin.Value())))
	pin.Unlock()
	return nil
}

func demoBoundary(m lvruntime.Manager) {
	l := cluster.NewHostLayout()
	cluster.Append[types.Bool](l)
	cluster.Append[int32](l)
	cluster.Append[lvruntime.UHandle](l)
	buf := make([]byte, l.Size())
	base := pointerTo(buf)

	st := boundary.Call(m, base, func() error {
		return errors.AllocationFailed(lvruntime.MFullErr, 1<<30)
	})

	ec := types.NewErrorCluster(m, base)
	src, _ := ec.Source()
	fmt.Println(failStyle.Render(fmt.Sprintf("  entry point returned %s", types.StatusString(st))))
	fmt.Println(failStyle.Render(fmt.Sprintf("  cluster: status=%v code=%d source=%q", ec.Status(), ec.Code(), src)))
}

func pointerTo(b []byte) unsafe.Pointer {
	return unsafe.Pointer(&b[0])
}
