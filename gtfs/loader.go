package gtfs

import (
	"archive/zip"
	"encoding/csv"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/urban-transit-labs/trainwatch/geometry"
)

func (g *Index) loadStaticZip(urlOrPath string) error {
	if strings.HasPrefix(urlOrPath, "http://") || strings.HasPrefix(urlOrPath, "https://") {
		return g.loadFromStaticURL(urlOrPath)
	}
	return g.loadFromLocalZip(urlOrPath)
}

func (g *Index) loadFromStaticURL(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	tmp, err := os.CreateTemp("", "gtfs-*.zip")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return g.loadFromLocalZip(tmp.Name())
}

func (g *Index) loadFromLocalZip(path string) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return err
	}
	defer zr.Close()
	for _, f := range zr.File {
		name := strings.ToLower(f.Name)
		if name == "routes.txt" || name == "trips.txt" || name == "stops.txt" || name == "agency.txt" || name == "shapes.txt" {
			if err := g.consumeCSV(f); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Index) consumeCSV(f *zip.File) error {
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	csvr := csv.NewReader(r)
	rec, err := csvr.ReadAll()
	if err != nil {
		return err
	}
	if len(rec) == 0 {
		return nil
	}
	head := rec[0]
	idx := func(col string) int {
		for i, h := range head {
			if strings.EqualFold(strings.TrimSpace(h), col) {
				return i
			}
		}
		return -1
	}
	switch strings.ToLower(f.Name) {
	case "routes.txt":
		rID := idx("route_id")
		rSN := idx("route_short_name")
		for _, row := range rec[1:] {
			if rID >= 0 && rSN >= 0 {
				g.RouteNames[row[rID]] = row[rSN]
			}
		}
	case "trips.txt":
		rID := idx("route_id")
		tID := idx("trip_id")
		sh := idx("shape_id")
		for _, row := range rec[1:] {
			if tID >= 0 && rID >= 0 {
				g.TripRoute[row[tID]] = row[rID]
			}
			if tID >= 0 && sh >= 0 {
				g.TripShape[row[tID]] = row[sh]
			}
		}
	case "stops.txt":
		sID := idx("stop_id")
		sN := idx("stop_name")
		sLat := idx("stop_lat")
		sLon := idx("stop_lon")
		sPar := idx("parent_station")
		for _, row := range rec[1:] {
			if sID < 0 {
				continue
			}
			st := Station{ID: row[sID]}
			if sN >= 0 {
				st.Name = row[sN]
			}
			if sLat >= 0 && sLon >= 0 {
				lat, _ := strconv.ParseFloat(row[sLat], 64)
				lon, _ := strconv.ParseFloat(row[sLon], 64)
				st.Coord = geometry.Coordinate{Lat: lat, Lon: lon}
			}
			if sPar >= 0 {
				st.ParentID = row[sPar]
			}
			g.Stations[st.ID] = st
		}
	case "agency.txt":
		agID := idx("agency_id")
		agTZ := idx("agency_timezone")
		agName := idx("agency_name")
		if len(rec) > 1 {
			if agID >= 0 && g.AgencyID == "" {
				g.AgencyID = rec[1][agID]
			}
			if agTZ >= 0 {
				g.AgencyTZ = rec[1][agTZ]
			}
			if agName >= 0 {
				g.AgencyName = rec[1][agName]
			}
		}
	case "shapes.txt":
		sh := idx("shape_id")
		latIdx := idx("shape_pt_lat")
		lonIdx := idx("shape_pt_lon")
		seqIdx := idx("shape_pt_sequence")
		if sh < 0 || latIdx < 0 || lonIdx < 0 || seqIdx < 0 {
			return nil
		}
		tmp := map[string][]struct {
			pt  geometry.Coordinate
			seq int
		}{}
		for _, row := range rec[1:] {
			shapeID := row[sh]
			lat, _ := strconv.ParseFloat(row[latIdx], 64)
			lon, _ := strconv.ParseFloat(row[lonIdx], 64)
			seq, _ := strconv.Atoi(row[seqIdx])
			tmp[shapeID] = append(tmp[shapeID], struct {
				pt  geometry.Coordinate
				seq int
			}{geometry.Coordinate{Lat: lat, Lon: lon}, seq})
		}
		for shapeID, arr := range tmp {
			sort.Slice(arr, func(i, j int) bool { return arr[i].seq < arr[j].seq })
			pts := make([]geometry.Coordinate, len(arr))
			for i, p := range arr {
				pts[i] = p.pt
			}
			g.Shapes[shapeID] = pts
		}
	}
	return nil
}
