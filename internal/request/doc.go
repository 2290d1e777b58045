// Package request provides the YAML schema, parsing and validation of batch
// request files.
//
// A batch file lists operations to run against Go source files:
//
//	version: "1"
//	requests:
//	  - file: shop/order.go
//	    op: delegate
//	    type: Order
//	    keys: [Close()error, Flush()error]
//	    apply: true
//	    save: true
//	  - file: shop/handler.go
//	    op: implement
//	    offset: 412          # inside a composite literal
//	    iface: io.Closer
//	    body: zero
//
// Each entry names its target either by type name or by a byte offset
// inside a composite literal. keys and iface accept a single string or a
// list. For implement, an empty key list means every missing method.
package request
