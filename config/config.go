package config

import "time"

type Config struct {
	Web    Web
	Cors   Cors
	DB     DB
	Auth   Auth
	Stripe Stripe
	Rate   Rate
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:5005"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type Cors struct {
	Origin string `conf:"default:*"`
}

type DB struct {
	URI            string        `conf:"default:mongodb://localhost:27017,mask"`
	Name           string        `conf:"default:summerCampDB"`
	ConnectTimeout time.Duration `conf:"default:10s"`
}

type Auth struct {
	TokenSecret string        `conf:"mask"`
	TokenTTL    time.Duration `conf:"default:24h"`
}

type Stripe struct {
	APISecret string `conf:"mask"`
}

// Rate bounds how often a single client can mint tokens.
type Rate struct {
	Burst    int           `conf:"default:10"`
	Interval time.Duration `conf:"default:1s"`
	Expiry   int           `conf:"default:60"`
}
