package utils

const (
	// PetIdKey is the key for pet ID used in routing parameters.
	PetIdKey = "petId"

	// ApplicationIdKey is the key for application ID used in routing parameters.
	ApplicationIdKey = "applicationId"

	// SpeciesParamKey is the key for species used in filter query parameters.
	SpeciesParamKey = "species"

	// BreedParamKey is the key for breed used in filter query parameters.
	BreedParamKey = "breed"

	// AgeMinParamKey is the key for the inclusive minimum age used in filter query parameters.
	AgeMinParamKey = "age_min"

	// AgeMaxParamKey is the key for the inclusive maximum age used in filter query parameters.
	AgeMaxParamKey = "age_max"

	// SizeParamKey is the key for size used in filter query parameters.
	SizeParamKey = "size"

	// LocationParamKey is the key for location used in filter query parameters.
	LocationParamKey = "location"

	// StatusParamKey is the key for status used in admin application query parameters.
	StatusParamKey = "status"

	// OffsetParamKey is the key for offset used in pagination query parameters.
	OffsetParamKey = "offset"

	// LimitParamKey is the key for limit used in pagination query parameters.
	LimitParamKey = "limit"
)
