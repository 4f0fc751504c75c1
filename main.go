package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/craftmandi/craft-finder/pkg/cart"
	"github.com/craftmandi/craft-finder/pkg/catalog"
	"github.com/craftmandi/craft-finder/pkg/common"
	"github.com/craftmandi/craft-finder/pkg/listing"
	"github.com/craftmandi/craft-finder/pkg/messaging"
	"github.com/craftmandi/craft-finder/pkg/server"
	"github.com/craftmandi/craft-finder/pkg/tracking"
)

var enableProfiling = flag.Bool("profiling", false, "enable profiling endpoints")

var (
	backendUrl    = os.Getenv("BACKEND_URL")
	dataPath      = os.Getenv("DATA_PATH")
	cartPath      = os.Getenv("CART_PATH")
	baseUrl       = os.Getenv("BASE_URL")
	redisAddr     = os.Getenv("REDIS_URL")
	redisPassword = os.Getenv("REDIS_PASSWORD")
	rabbitUrl     = os.Getenv("RABBIT_URL")
	market        = os.Getenv("MARKET")
	listenAddress = ":8080"
	debugAddress  = ":8081"
)

func init() {
	flag.Parse()
	if v, ok := os.LookupEnv("LISTEN_ADDRESS"); ok {
		listenAddress = v
	}
	if v, ok := os.LookupEnv("DEBUG_ADDRESS"); ok {
		debugAddress = v
	}
	if cartPath == "" {
		cartPath = "data/carts"
	}
	if baseUrl == "" {
		baseUrl = "https://craftmandi.in"
	}
	if market == "" {
		market = "in"
	}
}

func makeSource() listing.CategorySource {
	if backendUrl != "" {
		log.Printf("using backend catalog at %s", backendUrl)
		return catalog.NewClient(backendUrl)
	}
	if dataPath == "" {
		log.Fatalf("neither BACKEND_URL nor DATA_PATH provided")
	}
	disk, err := catalog.OpenDiskCatalog(dataPath)
	if err != nil {
		log.Fatalf("failed to open catalog dataset: %v", err)
	}
	log.Printf("serving catalog dataset from %s", dataPath)
	return disk
}

func main() {
	source := makeSource()

	var cache *catalog.Cache
	if redisAddr != "" {
		cache = catalog.NewCache(redisAddr, redisPassword, 0)
		cached := &catalog.CachedSource{Source: source, Cache: cache, TTL: 5 * time.Minute}
		source = cached
		if rabbitUrl != "" {
			listenForProductChanges(rabbitUrl, cached)
		}
	}

	var tracker tracking.Tracker = tracking.NoopTracker{}
	if rabbitUrl != "" {
		rt, err := tracking.NewRabbitTracker(rabbitUrl, market)
		if err != nil {
			log.Printf("tracking disabled, rabbit connection failed: %v", err)
		} else {
			tracker = rt
		}
	}

	srv := &server.ListingServer{
		Source:  source,
		Carts:   cart.NewDiskStorage(cartPath),
		Tracker: tracker,
		BaseURL: baseUrl,
	}

	mux := http.NewServeMux()
	srv.Register(mux)

	debugMux := http.NewServeMux()
	debugMux.Handle("/metrics", promhttp.Handler())
	if *enableProfiling {
		debugMux.HandleFunc("/debug/pprof/", pprof.Index)
		debugMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		debugMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		debugMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	go func() {
		log.Printf("debug endpoints on %s", debugAddress)
		if err := http.ListenAndServe(debugAddress, debugMux); err != nil {
			log.Printf("debug server stopped: %v", err)
		}
	}()

	timeouts := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       30 * time.Second,
		Write:      30 * time.Second,
		Idle:       120 * time.Second,
		Shutdown:   15 * time.Second,
		Hook:       5 * time.Second,
	})
	httpServer := common.NewServerWithTimeouts(&http.Server{Addr: listenAddress, Handler: mux}, timeouts)

	common.RunServerWithShutdown(httpServer, "craft-finder listing api", timeouts.Shutdown, timeouts.Hook,
		func(ctx context.Context) error {
			if cache != nil {
				cache.Close()
			}
			return tracker.Close()
		},
	)
}

type productChange struct {
	CategoryId string `json:"categoryId"`
}

// listenForProductChanges invalidates cached category metadata when a
// write changes product pricing or category membership.
func listenForProductChanges(url string, cached *catalog.CachedSource) {
	conn, err := amqp.Dial(url)
	if err != nil {
		log.Printf("cache invalidation disabled, rabbit connection failed: %v", err)
		return
	}
	ch, err := conn.Channel()
	if err != nil {
		log.Printf("cache invalidation disabled: %v", err)
		return
	}
	err = messaging.ListenToTopic(ch, "global", messaging.ProductChanged, func(d amqp.Delivery) error {
		var change productChange
		if err := json.Unmarshal(d.Body, &change); err != nil {
			log.Printf("ignoring malformed product change: %v", err)
			return nil
		}
		if change.CategoryId != "" {
			cached.Invalidate(context.Background(), change.CategoryId)
		}
		return nil
	})
	if err != nil {
		log.Printf("cache invalidation listener failed: %v", err)
	}
}
