package main

import (
	"fmt"
	"image"
	"log"

	"github.com/fogleman/gg"

	"github.com/golocate/golocate/environment/envconfig"
	"github.com/golocate/golocate/environment/localize"
	"github.com/golocate/golocate/experiment"
	"github.com/golocate/golocate/experiment/tracker"
	"github.com/golocate/golocate/feature"
	"github.com/golocate/golocate/initwfn"
	"github.com/golocate/golocate/network"
	"github.com/golocate/golocate/policy"
)

// scene draws a simple synthetic detection scene: a dark background
// with a single bright object to localize. It returns the image and
// the ground truth box of the object.
func scene(width, height int) (image.Image, localize.Box) {
	dc := gg.NewContext(width, height)
	dc.SetRGB(0.15, 0.15, 0.2)
	dc.Clear()

	target := localize.NewBox(120, 90, 270, 210)
	dc.SetRGB(0.9, 0.8, 0.3)
	dc.DrawRectangle(target.XMin, target.YMin, target.Width(),
		target.Height())
	dc.Fill()

	return dc.Image(), target
}

func main() {
	var seed uint64 = 192382

	// Create the environment
	img, target := scene(448, 336)
	extractor, err := feature.NewMeanPool(8)
	if err != nil {
		log.Fatal(err)
	}

	envConf := envconfig.NewConfig(envconfig.Localize, 50, 1.0)
	env, _, err := envConf.Create(img, img, target, extractor)
	if err != nil {
		log.Fatal(err)
	}
	defer env.Close()

	// Create the action-value estimator and its policy
	init, err := initwfn.NewGlorotU(1.0)
	if err != nil {
		log.Fatal(err)
	}
	estimator, err := network.NewDQN(env, nil, init)
	if err != nil {
		log.Fatal(err)
	}
	egreedy, err := policy.NewEGreedy(estimator, 0.25, seed)
	if err != nil {
		log.Fatal(err)
	}

	// Roll out episodes, tracking returns and final overlap
	config := localize.DefaultConfig()
	config.MaxSteps = 50

	var returns tracker.Tracker = tracker.NewReturn("./returns.bin")
	ious := tracker.NewFinalIoU("./ious.bin")

	source := experiment.NewFixedScene(img, img, target)
	rollout := experiment.NewRollout(env, source, egreedy,
		network.Exploration, config, returns, ious)
	if err := rollout.Run(5); err != nil {
		log.Fatal(err)
	}
	rollout.Save()

	fmt.Println("episodic returns:", tracker.LoadData("./returns.bin"))
	fmt.Println("final IoUs:", tracker.LoadData("./ious.bin"))
	fmt.Println(env)

	if err := env.SaveFrame("./episode.png", localize.RenderImage); err != nil {
		log.Fatal(err)
	}
}
