package gtfs

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/urban-transit-labs/trainwatch/config"
	"github.com/urban-transit-labs/trainwatch/geometry"
)

func writeTestZip(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gtfs.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	return path
}

func testZipFiles() map[string]string {
	return map[string]string{
		"agency.txt": "agency_id,agency_name,agency_timezone\nMTA,Metropolitan Transportation Authority,America/New_York\n",
		"routes.txt": "route_id,route_short_name\nA,A\nB,B\n",
		"trips.txt": "route_id,trip_id,shape_id\n" +
			"A,trip-a-1,shape-a-long\n" +
			"A,trip-a-2,shape-a-short\n" +
			"B,trip-b-1,\n",
		"stops.txt": "stop_id,stop_name,stop_lat,stop_lon,parent_station\n" +
			"S1,First St,40.0,-74.0,\n" +
			"S1N,First St,0,0,S1\n",
		"shapes.txt": "shape_id,shape_pt_lat,shape_pt_lon,shape_pt_sequence\n" +
			"shape-a-long,40.0,-74.0,1\n" +
			"shape-a-long,40.01,-74.0,2\n" +
			"shape-a-long,40.02,-74.0,3\n" +
			"shape-a-short,40.0,-74.0,1\n" +
			"shape-a-short,40.01,-74.0,2\n",
	}
}

func TestNewIndexFromConfig_LocalZip(t *testing.T) {
	path := writeTestZip(t, testZipFiles())
	idx, err := NewIndexFromConfig(config.GTFSConfig{StaticURL: path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if idx.AgencyID != "MTA" || idx.AgencyTZ != "America/New_York" {
		t.Errorf("agency = %q tz = %q", idx.AgencyID, idx.AgencyTZ)
	}
	if got := idx.RouteShortName("A"); got != "A" {
		t.Errorf("route A short name = %q", got)
	}
	if got := idx.TripRoute["trip-a-1"]; got != "A" {
		t.Errorf("trip-a-1 route = %q, want A", got)
	}
	if got := len(idx.Shapes["shape-a-long"]); got != 3 {
		t.Errorf("shape-a-long has %d points, want 3", got)
	}
}

func TestStationCoord_ParentFallback(t *testing.T) {
	path := writeTestZip(t, testZipFiles())
	idx, err := NewIndexFromConfig(config.GTFSConfig{StaticURL: path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	coord, ok := idx.StationCoord("S1N")
	if !ok {
		t.Fatal("S1N not found")
	}
	want := geometry.Coordinate{Lat: 40.0, Lon: -74.0}
	if coord != want {
		t.Errorf("S1N coord = %+v, want parent coord %+v", coord, want)
	}

	if _, ok := idx.StationCoord("nope"); ok {
		t.Error("unknown stop should not resolve")
	}
}

func TestRouteGeometries_PicksLongestShape(t *testing.T) {
	path := writeTestZip(t, testZipFiles())
	idx, err := NewIndexFromConfig(config.GTFSConfig{StaticURL: path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	geoms := idx.RouteGeometries()
	pts, ok := geoms["A"]
	if !ok {
		t.Fatal("route A has no geometry")
	}
	if len(pts) != 3 {
		t.Errorf("route A geometry has %d points, want 3 (longest shape)", len(pts))
	}
	if _, ok := geoms["B"]; ok {
		t.Error("route B has no shape data and should be omitted")
	}
}

func TestIndexCacheRoundTrip(t *testing.T) {
	path := writeTestZip(t, testZipFiles())
	idx, err := NewIndexFromConfig(config.GTFSConfig{StaticURL: path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	cachePath := filepath.Join(t.TempDir(), "index.gob")
	if err := SerializeIndexToFile(idx, cachePath); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	got, err := DeserializeIndexFromFile(cachePath)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}

	if got.AgencyID != idx.AgencyID {
		t.Errorf("agency = %q, want %q", got.AgencyID, idx.AgencyID)
	}
	if len(got.Stations) != len(idx.Stations) {
		t.Errorf("stations = %d, want %d", len(got.Stations), len(idx.Stations))
	}
	if len(got.RouteGeometries()) != len(idx.RouteGeometries()) {
		t.Error("route geometries differ after round trip")
	}
}
