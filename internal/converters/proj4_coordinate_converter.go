package converters

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"path"
	"strconv"
	"strings"

	"github.com/xeonx/proj4"

	"github.com/RECONupm/METASHAPE/internal/geometry"
	"github.com/RECONupm/METASHAPE/tools"
)

type proj4CoordinateConverter struct {
	definitions map[int]string
	projections map[int]*proj.Proj
}

// Builds a CoordinateConverter backed by proj4, with EPSG definitions read
// from the assets folder
func NewProj4CoordinateConverter() (CoordinateConverter, error) {
	definitionsPath := path.Join(tools.GetRootFolder(), "assets", "epsg_projections.txt")
	definitions, err := LoadEPSGDefinitions(definitionsPath)
	if err != nil {
		return nil, err
	}

	return &proj4CoordinateConverter{
		definitions: definitions,
		projections: make(map[int]*proj.Proj),
	}, nil
}

// Parses a definitions file with one "srid<TAB>proj4 definition" entry per
// line, empty lines and lines starting with # are skipped
func LoadEPSGDefinitions(filePath string) (map[int]string, error) {
	file := tools.OpenFileOrFail(filePath)
	defer func() { _ = file.Close() }()

	definitions := make(map[int]string)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens := strings.SplitN(line, "\t", 2)
		if len(tokens) != 2 {
			return nil, fmt.Errorf("malformed EPSG definition line: %q", line)
		}
		srid, err := strconv.Atoi(strings.TrimSpace(tokens[0]))
		if err != nil {
			return nil, fmt.Errorf("malformed EPSG srid in line: %q", line)
		}
		definitions[srid] = strings.TrimSpace(tokens[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return definitions, nil
}

func (converter *proj4CoordinateConverter) ConvertCoordinateSrid(sourceSrid int, targetSrid int, coord geometry.Coordinate) (geometry.Coordinate, error) {
	if sourceSrid == targetSrid {
		return coord, nil
	}

	src, err := converter.initProjection(sourceSrid)
	if err != nil {
		return coord, err
	}
	dst, err := converter.initProjection(targetSrid)
	if err != nil {
		return coord, err
	}

	var x = []float64{toProjUnit(coord.X, src)}
	var y = []float64{toProjUnit(coord.Y, src)}
	var z = []float64{coord.Z}

	if err := proj.TransformRaw(src, dst, x, y, z); err != nil {
		return coord, fmt.Errorf("cannot convert coordinate from srid %d to srid %d: %w", sourceSrid, targetSrid, err)
	}

	return geometry.Coordinate{
		X: fromProjUnit(x[0], dst),
		Y: fromProjUnit(y[0], dst),
		Z: z[0],
	}, nil
}

func (converter *proj4CoordinateConverter) Cleanup() {
	for _, projection := range converter.projections {
		if projection != nil {
			projection.Close()
		}
	}
	converter.projections = make(map[int]*proj.Proj)
}

func (converter *proj4CoordinateConverter) initProjection(srid int) (*proj.Proj, error) {
	if projection, found := converter.projections[srid]; found {
		return projection, nil
	}

	definition, found := converter.definitions[srid]
	if !found {
		return nil, errors.New("epsg code " + strconv.Itoa(srid) + " not found in the epsg definitions file")
	}

	projection, err := proj.InitPlus(definition)
	if err != nil {
		return nil, fmt.Errorf("cannot initialize projection for srid %d: %w", srid, err)
	}

	converter.projections[srid] = projection
	return projection, nil
}

// proj4 works in radians for geographic projections
func toProjUnit(value float64, projection *proj.Proj) float64 {
	if projection.IsLatLong() {
		return value * math.Pi / 180
	}
	return value
}

func fromProjUnit(value float64, projection *proj.Proj) float64 {
	if projection.IsLatLong() {
		return value / math.Pi * 180
	}
	return value
}
