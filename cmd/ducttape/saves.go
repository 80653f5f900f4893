package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ducttape-dev/ducttape"
	"github.com/ducttape-dev/ducttape/storage"
)

var (
	flagSavesLimit int
	flagSavesJSON  bool
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "Inspect saved scene snapshots",
	Long: `Scene snapshots are written by quicksave (F5) in 'ducttape run' and
kept in a SQLite database.`,
}

var savesListCmd = &cobra.Command{
	Use:   "list [scene]",
	Short: "List snapshots, newest first",
	Args:  cobra.MaximumNArgs(1),
	Run:   runSavesList,
}

var savesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one snapshot",
	Args:  cobra.ExactArgs(1),
	Run:   runSavesShow,
}

var savesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one snapshot",
	Args:  cobra.ExactArgs(1),
	Run:   runSavesDelete,
}

func init() {
	savesListCmd.Flags().IntVar(&flagSavesLimit, "limit", 20, "maximum number of snapshots (0 for all)")
	savesShowCmd.Flags().BoolVar(&flagSavesJSON, "json", false, "print the raw snapshot JSON")
	savesCmd.AddCommand(savesListCmd)
	savesCmd.AddCommand(savesShowCmd)
	savesCmd.AddCommand(savesDeleteCmd)
}

func openStore() *storage.Store {
	cfg, err := loadConfig()
	if err != nil {
		fail("loading config: %v", err)
	}
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fail("opening snapshot database: %v", err)
	}
	return store
}

func parseID(arg string) int64 {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		fail("invalid snapshot id %q", arg)
	}
	return id
}

func runSavesList(cmd *cobra.Command, args []string) {
	scene := ""
	if len(args) == 1 {
		scene = args[0]
	}
	store := openStore()
	defer store.Close()

	snaps, err := store.List(scene, flagSavesLimit)
	if err != nil {
		fail("listing snapshots: %v", err)
	}
	if len(snaps) == 0 {
		fmt.Println("No snapshots saved yet.")
		fmt.Println()
		fmt.Println("Press F5 in 'ducttape run' to save the scene.")
		return
	}

	// Print header
	fmt.Printf("  %-6s  %-12s  %-12s  %s\n", "ID", "Scene", "Label", "Date")
	fmt.Printf("  %-6s  %-12s  %-12s  %s\n", "--", "-----", "-----", "----")
	for _, s := range snaps {
		fmt.Printf("  %-6d  %-12s  %-12s  %s\n", s.ID, s.Scene, s.Label, s.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func runSavesShow(cmd *cobra.Command, args []string) {
	id := parseID(args[0])
	store := openStore()
	defer store.Close()

	snap, err := store.Load(id)
	if errors.Is(err, storage.ErrNotFound) {
		fail("no snapshot with id %d", id)
	}
	if err != nil {
		fail("loading snapshot: %v", err)
	}

	fmt.Println(sectionStyle.Render(fmt.Sprintf("Snapshot %d", snap.ID)))
	fmt.Println("  " + keyStyle.Render("scene") + valueStyle.Render(snap.Scene))
	fmt.Println("  " + keyStyle.Render("label") + valueStyle.Render(snap.Label))
	fmt.Println("  " + keyStyle.Render("saved") + valueStyle.Render(snap.CreatedAt.Format("2006-01-02 15:04:05")))
	fmt.Println()

	if flagSavesJSON {
		var out bytes.Buffer
		if err := json.Indent(&out, snap.Data, "", "  "); err != nil {
			fail("snapshot %d is not valid JSON: %v", id, err)
		}
		fmt.Println(out.String())
		return
	}
	p, err := ducttape.ReadPacket(snap.Data)
	if err != nil {
		fail("decoding snapshot %d: %v", id, err)
	}
	fmt.Print(renderSnapshot(snap.Scene, p))
}

var (
	nodeStyle      = lipgloss.NewStyle().Bold(true)
	componentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	disabledStyle  = lipgloss.NewStyle().Faint(true).Strikethrough(true)
)

// renderSnapshot prints the node tree stored in a scene packet.
func renderSnapshot(name string, p *ducttape.Packet) string {
	var b strings.Builder
	renderNodePacket(&b, name, p, 0)
	return b.String()
}

func renderNodePacket(b *strings.Builder, name string, p *ducttape.Packet, depth int) {
	indent := strings.Repeat("  ", depth)
	title := nodeStyle.Render(name)
	if !packetEnabled(p) {
		title = disabledStyle.Render(name)
	}
	b.WriteString(indent + title)
	if pos, ok := p.Raw("position"); ok {
		b.WriteString(" " + pathStyle.Render(string(pos)))
	}
	b.WriteString("\n")

	comps := p.Child("components")
	for _, cname := range comps.ChildNames() {
		cp := comps.Child(cname)
		label := componentStyle.Render("* " + cname)
		if !packetEnabled(cp) {
			label = disabledStyle.Render("* " + cname)
		}
		var fields []string
		for _, k := range cp.Keys() {
			if k == "enabled" {
				continue
			}
			raw, _ := cp.Raw(k)
			fields = append(fields, k+"="+string(raw))
		}
		b.WriteString(indent + "  " + label + " " + strings.Join(fields, " ") + "\n")
	}

	children := p.Child("children")
	for _, cname := range children.ChildNames() {
		renderNodePacket(b, cname, children.Child(cname), depth+1)
	}
}

func packetEnabled(p *ducttape.Packet) bool {
	enabled := true
	p.Stream("enabled", &enabled)
	return enabled
}

func runSavesDelete(cmd *cobra.Command, args []string) {
	id := parseID(args[0])
	store := openStore()
	defer store.Close()

	if err := store.Delete(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail("no snapshot with id %d", id)
		}
		fail("deleting snapshot: %v", err)
	}
	fmt.Printf("Deleted snapshot %d.\n", id)
}
