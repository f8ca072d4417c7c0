package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/fieldcanvas/territoryx/pkg/datastructure"
	"github.com/fieldcanvas/territoryx/pkg/engine/heuristics"
	"github.com/fieldcanvas/territoryx/pkg/engine/routingalgorithm"
	"github.com/fieldcanvas/territoryx/pkg/kv"
	"github.com/fieldcanvas/territoryx/pkg/osmparser"
	"github.com/fieldcanvas/territoryx/pkg/server/rest"
	"github.com/fieldcanvas/territoryx/pkg/server/rest/service"
	"github.com/fieldcanvas/territoryx/pkg/snap"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	listenAddr = flag.String("listenaddr", ":5000", "server listen address")
	mapFile    = flag.String("f", "solo_jogja.osm.pbf", "openstreetmap pbf file for the road network graph")
	dbPath     = flag.String("db", "./territoryx_db", "badger database directory")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		if addr := os.Getenv("LISTEN_ADDR"); addr != "" {
			*listenAddr = addr
		}
	}

	parser := osmparser.NewOSMParser()
	roads, err := parser.Parse(*mapFile)
	if err != nil {
		log.Fatal(err)
	}

	graph := datastructure.NewRoadGraph()
	records := make([]kv.RoadRecord, 0, len(roads))
	for _, road := range roads {
		graph.AddRoad(road.Points, road.Class)
		records = append(records, kv.NewRoadRecord(road.Points, road.Class))
	}
	log.Printf("road graph ready: %d nodes, %d edges", graph.NodeCount(), graph.EdgeCount())

	db, err := badger.Open(badger.DefaultOptions(*dbPath))
	if err != nil {
		log.Fatal(err)
	}

	kvDB := kv.NewKVDB(db)
	defer kvDB.Close()

	if err := kvDB.BuildH3IndexedRoads(context.Background(), records); err != nil {
		log.Fatal(err)
	}

	nodeIndex := snap.NewNodeIndex()
	nodeIndex.Build(graph.Nodes())

	routingAlgorithm := routingalgorithm.NewRouteAlgorithm(graph, nodeIndex)
	sequencer := heuristics.NewStopSequencer(routingAlgorithm)

	navigatorSvc := service.NewNavigationService(routingAlgorithm, sequencer, kvDB)

	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg)

	r := chi.NewRouter()

	r.Use(middleware.Logger)

	r.Use(rest.PromeHttpMiddleware(m)) // prometheus http middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	rest.NavigationRouter(r, navigatorSvc)

	fmt.Printf("\nroute & territory engine ready!!")
	fmt.Printf("\nserver started at %s\n", *listenAddr)

	log.Fatal(http.ListenAndServe(*listenAddr, r))
}
