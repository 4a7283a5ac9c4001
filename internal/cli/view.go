package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/authorsphere/pkg/graph"
	"github.com/matzehuels/authorsphere/pkg/layout"
	"github.com/matzehuels/authorsphere/pkg/render"
	"github.com/matzehuels/authorsphere/pkg/render/raster"
)

const defaultFPS = 30

// viewCommand creates the interactive viewer command.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		crawlOpts crawlFlags
		opts      layoutFlags
		fps       int
	)

	cmd := &cobra.Command{
		Use:   "view [author-id]",
		Short: "Crawl and watch the layout settle in the terminal",
		Long: `Crawl and watch the layout settle in the terminal.

The graph around the root is crawled (unless --offline) and the force
simulation is drawn frame by frame. Keys: q, esc or ctrl+c quit; space
pauses; r restarts the simulation.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := crawlOpts.rootID(args)
			if err != nil {
				return err
			}
			if fps <= 0 {
				return fmt.Errorf("--fps must be positive, got %d", fps)
			}
			store, err := c.loadAndCrawl(cmd.Context(), root, crawlOpts)
			if err != nil {
				return err
			}
			e, err := opts.engine(store, root)
			if err != nil {
				return err
			}
			return runViewer(cmd.Context(), newViewerModel(cmd.Context(), store, e, fps))
		},
	}

	crawlOpts.register(cmd, true)
	opts.register(cmd)
	cmd.Flags().IntVar(&fps, "fps", defaultFPS, "frames per second")

	return cmd
}

func runViewer(ctx context.Context, m viewerModel) error {
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if vm, ok := final.(viewerModel); ok && vm.err != nil {
		return vm.err
	}
	return nil
}

// =============================================================================
// viewerModel - bubbletea frame loop
// =============================================================================

// frameMsg plays the role of the display refresh signal.
type frameMsg time.Time

// viewerModel drives render.Frame from bubbletea ticks. Key presses are fed
// to the canvas as events; a quit event ends the program on the next frame.
type viewerModel struct {
	ctx    context.Context
	store  *graph.Store
	engine *layout.Engine
	canvas *raster.Canvas
	style  render.Style
	every  time.Duration

	paused  bool
	frames  int
	visible int
	err     error
}

func newViewerModel(ctx context.Context, store *graph.Store, e *layout.Engine, fps int) viewerModel {
	return viewerModel{
		ctx:    ctx,
		store:  store,
		engine: e,
		canvas: raster.New(80, 24, e.Size()),
		style:  render.DefaultStyle(),
		every:  time.Second / time.Duration(fps),
	}
}

func (m viewerModel) nextFrame() tea.Cmd {
	return tea.Tick(m.every, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m viewerModel) Init() tea.Cmd {
	return m.nextFrame()
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.canvas.Push(render.Event{Kind: render.EventQuit})
			if m.paused {
				return m, tea.Quit
			}
		case " ":
			m.paused = !m.paused
		case "r":
			m.engine.Reset()
			m.frames = 0
		default:
			m.canvas.Push(render.Event{Kind: render.EventKey, Key: msg.String()})
		}
	case tea.WindowSizeMsg:
		m.canvas.Resize(msg.Width, max(msg.Height-1, 1))
	case frameMsg:
		if m.paused {
			return m, m.nextFrame()
		}
		positions, quit, err := render.Frame(m.ctx, m.canvas, m.engine, m.store, m.style)
		if err != nil {
			m.err = err
			return m, tea.Quit
		}
		if quit {
			return m, tea.Quit
		}
		m.frames++
		m.visible = len(positions)
		return m, m.nextFrame()
	}
	return m, nil
}

func (m viewerModel) View() string {
	var b strings.Builder
	b.WriteString(m.canvas.Render())
	b.WriteString("\n")
	status := fmt.Sprintf("frame %d  t=%.0f  visible %d/%d", m.frames, m.engine.Time(), m.visible, m.store.Len())
	if m.paused {
		status += "  paused"
	}
	b.WriteString(StyleDim.Render(status + "  ·  q quit  space pause  r restart"))
	return b.String()
}
