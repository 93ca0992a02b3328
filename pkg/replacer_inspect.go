package pkg

import (
	"fmt"

	"github.com/RECONupm/METASHAPE/internal/project"
	"github.com/RECONupm/METASHAPE/internal/replacer"
	"github.com/RECONupm/METASHAPE/tools"
)

type ReplacerInspect struct{}

func NewReplacerInspect() IReplacer {
	return &ReplacerInspect{}
}

// Prints the chunks of the project with their stations, cameras and mask state
func (ri *ReplacerInspect) Run(opts *replacer.ReplacerOptions) error {
	doc, err := project.LoadDocument(opts.ProjectPath)
	if err != nil {
		return err
	}

	for _, chunk := range doc.Chunks {
		marker := ""
		if chunk.Active {
			marker = " (active)"
		}
		tools.LogOutput("Chunk: '" + chunk.Label + "'" + marker)

		for _, pc := range chunk.LaserScans() {
			cams := chunk.AttachedCameras(pc)
			masked := 0
			for _, cam := range cams {
				if cam.Mask != nil {
					masked++
				}
			}

			transform := "no transform"
			if eff := chunk.EffectiveTransform(pc); eff != nil {
				position := RoundCoordinate(eff.Translation())
				transform = fmt.Sprintf("position [%s %s %s]", position[0], position[1], position[2])
			}

			tools.LogOutput(fmt.Sprintf("  Station '%s' | %s | cameras: %d (masked: %d) | enabled: %v",
				pc.Label, transform, len(cams), masked, pc.Enabled))
		}
	}

	return nil
}
