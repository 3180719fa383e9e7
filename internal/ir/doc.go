// Package ir defines the language-neutral intermediate representation the
// generator builds from the Stripe OpenAPI document.
//
// # Types and Objects
//
// A [Type] describes the value of a field: a [Simple] primitive, a [Compound]
// container, a [Ref] to another component, a [HoistedRef] to a deduplicated
// type, an [ObjectID] newtype reference, or an anonymous [InlineObject].
//
// An [Object] is the body of a named type: a [Struct], a [FieldlessEnum] or a
// tagged [Enum].
//
// # Components
//
// Each component schema becomes a [StripeObject] that owns its data, its
// requests and the types hoisted out of it by the deduplicator.
package ir
