// Package contract provides validation constants and utilities at the CLI
// boundary: known query types and artifact tiers.
//
//	result := contract.ValidateQueryType(queryType)
//	if !result.OK {
//	    return errors.NewQueryTypeError(result.Message, "run `projectmap query --help`")
//	}
package contract
