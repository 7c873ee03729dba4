package scoring

// DefaultVocabulary is the set of technical terms that earn a clarity bonus.
var DefaultVocabulary = []string{
	"algorithm",
	"api",
	"architecture",
	"cache",
	"complexity",
	"concurrency",
	"database",
	"framework",
	"interface",
	"latency",
	"microservice",
	"microservices",
	"optimization",
	"performance",
	"protocol",
	"scalability",
	"security",
	"testing",
	"throughput",
}
