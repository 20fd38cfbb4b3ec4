// Package schema defines the run document: the engine parameters, volumes,
// ensembles, selectors, the mover tree and the initial samples of a path
// sampling run.
//
// Documents are read from YAML or JSON, checked against an embedded JSON
// schema, decoded into typed structs and then cross-checked:
//
//	doc, err := schema.Load("run.yaml")
//	if err != nil {
//	    for _, e := range schema.ValidationErrors(err) {
//	        fmt.Println(e)
//	    }
//	}
//
// Reference errors (unknown ensembles, duplicate replicas, ...) are reported
// together as an *AggregateError of *ValidationError.
package schema
