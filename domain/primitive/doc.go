// Package primitive provides the validation contract for domain primitives.
//
// A domain primitive is a named wrapper over a raw scalar that can only be
// constructed from a value passing its rule:
//
//	var customerName = primitive.Define("CustomerName",
//		primitive.WithRule(func(s string) primitive.Result {
//			if len(s) < 4 {
//				return primitive.Reject("name too short")
//			}
//			return primitive.OK()
//		}),
//		primitive.WithDefault("John Doe"),
//	)
//
//	type CustomerName struct{ v string }
//
//	func (CustomerName) Descriptor() primitive.Descriptor { return customerName }
//
// A rule is either result-returning (WithRule) or error-raising (WithCheck),
// never both. The default value is validated when the descriptor is defined.
//
// Temporal kinds accept a layout annotation (WithLayout) with the tokens
// yyyy MM dd HH hh mm ss fff ffffff fffffffff tt. Layouts that cannot
// round-trip every value, such as yy or hh without tt, are rejected.
package primitive
