package constants

var DefaultCORSOrigins = []string{
	"http://localhost:8000",
	"http://localhost:3000",
	"http://127.0.0.1:8000",
	"http://127.0.0.1:3000",
	"http://172.20.0.4:3000",
}
