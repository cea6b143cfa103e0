package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	characterName := flag.String("character", "character.yaml", "character prefab in prefabs/")
	courseName := flag.String("course", "course.yaml", "course prefab in prefabs/")
	debug := flag.Bool("debug", false, "show ability state and tick counters")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	noWatch := flag.Bool("nowatch", false, "disable hot reload of prefabs/")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("traversal sandbox")

	game, err := NewGame(*characterName, *courseName, *debug, !*noWatch)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
