package carriers

// File is the root structure of a carriers YAML file:
//
//	carriers:
//	  AA: American Airlines
//	  AF: Air France
type File struct {
	Carriers map[string]string `yaml:"carriers"`
}
