package validation

import (
	"github.com/goliatone/go-eticket/pkg/requirements"
)

// DeclarationSet returns the validators for every field of the declaration,
// backed by the default requirement registry.
func DeclarationSet() *Set {
	return DeclarationSetWith(requirements.Default())
}

// DeclarationSetWith builds the declaration rules over a custom registry.
func DeclarationSetWith(registry *requirements.Registry) *Set {
	set := NewSet(registry)

	country := Country(Messages{Invalid: "Select a valid country"})
	name := MaxLength(60, Messages{})
	answer := Boolean(Messages{Invalid: "Answer yes or no"})

	set.Add("travelers.personalInfo.firstName", Rule{Validator: name, Required: "First name is required"})
	set.Add("travelers.personalInfo.lastName", Rule{Validator: name, Required: "Last name is required"})
	set.Add("travelers.personalInfo.birthDate", Rule{
		Validator: Date(PastDate, Messages{}),
		Required:  "Date of birth is required",
	})
	set.Add("travelers.personalInfo.sex", Rule{
		Validator: OneOf(Messages{}, "female", "male", "unspecified"),
		Required:  "Select a sex",
	})
	set.Add("travelers.personalInfo.nationality", Rule{Validator: country, Required: "Nationality is required"})
	set.Add("travelers.personalInfo.birthCountry", Rule{Validator: country, Required: "Country of birth is required"})
	set.Add("travelers.personalInfo.maritalStatus", Rule{
		Validator: OneOf(Messages{}, "single", "married", "divorced", "widowed", "other"),
	})
	set.Add("travelers.personalInfo.occupation", Rule{Validator: MaxLength(80, Messages{})})

	set.Add("travelers.passport.number", Rule{
		Validator: PassportNumber(Messages{Invalid: "Passport numbers have 6 to 9 letters or digits"}),
		Required:  "Passport number is required",
	})
	set.Add("travelers.passport.expiryDate", Rule{
		Validator: Date(FutureDate, Messages{Invalid: "The passport must be valid on the travel date"}),
		Required:  "Passport expiry date is required",
	})
	set.Add("travelers.passport.issuingCountry", Rule{Validator: country, Required: "Issuing country is required"})
	set.Add("travelers.passport.hasOtherNationality", Rule{Validator: answer, Required: "Answer whether you hold another nationality"})
	set.Add("travelers.passport.otherNationality", Rule{Validator: country, Required: "Other nationality is required"})

	set.Add("contactInfo.email", Rule{
		Validator: Email(Messages{Invalid: "Enter a valid email address"}),
		Required:  "Email is required",
	})
	set.Add("contactInfo.phone", Rule{
		Validator: Phone(Messages{Invalid: "Enter a valid phone number"}),
		Required:  "Phone number is required",
	})
	set.Add("contactInfo.emergencyContactName", Rule{Validator: MaxLength(120, Messages{})})
	set.Add("contactInfo.emergencyContactPhone", Rule{Validator: Phone(Messages{Invalid: "Enter a valid phone number"})})
	set.Add("contactInfo.residenceCountry", Rule{Validator: country, Required: "Country of residence is required"})
	set.Add("contactInfo.residenceCity", Rule{Validator: MaxLength(80, Messages{}), Required: "City is required"})
	set.Add("contactInfo.residenceAddress", Rule{Validator: MaxLength(200, Messages{}), Required: "Address is required"})
	set.Add("contactInfo.wantsCopy", Rule{Validator: answer})
	set.Add("contactInfo.stayAddress", Rule{Validator: MaxLength(200, Messages{}), Required: "Address during your stay is required"})

	set.Add("flightInfo.direction", Rule{
		Validator: OneOf(Messages{}, "arrival", "departure"),
		Required:  "Select whether you are arriving or departing",
	})
	set.Add("flightInfo.airline", Rule{Validator: MaxLength(60, Messages{}), Required: "Airline is required"})
	set.Add("flightInfo.flightNumber", Rule{
		Validator: FlightNumber(Messages{Invalid: "Enter a flight number such as AA1234"}),
		Required:  "Flight number is required",
	})
	set.Add("flightInfo.travelDate", Rule{
		Validator: Date(FutureDate, Messages{}),
		Required:  "Travel date is required",
	})
	set.Add("flightInfo.originCountry", Rule{Validator: country, Required: "Country of origin is required"})
	set.Add("flightInfo.destinationCountry", Rule{Validator: country, Required: "Destination country is required"})
	set.Add("flightInfo.portOfEntry", Rule{Validator: MaxLength(80, Messages{}), Required: "Port of entry is required"})
	set.Add("flightInfo.hasConnection", Rule{Validator: answer, Required: "Answer whether you have a connecting flight"})
	set.Add("flightInfo.connectionFlightNumber", Rule{
		Validator: FlightNumber(Messages{Invalid: "Enter a flight number such as AA1234"}),
		Required:  "Connecting flight number is required",
	})

	set.Add("customs.carriesCurrency", Rule{Validator: answer, Required: "Answer the currency question"})
	set.Add("customs.currencyAmount", Rule{Validator: MaxLength(20, Messages{}), Required: "Declare the amount carried"})
	set.Add("customs.carriesAnimalsOrFood", Rule{Validator: answer, Required: "Answer the animals, plants and food question"})
	set.Add("customs.animalsOrFoodDetails", Rule{Validator: MaxLength(500, Messages{}), Required: "Describe what you are carrying"})
	set.Add("customs.carriesTaxableGoods", Rule{Validator: answer, Required: "Answer the taxable goods question"})
	set.Add("customs.taxableGoodsValue", Rule{Validator: MaxLength(20, Messages{}), Required: "Declare the value of the goods"})
	set.Add("customs.taxableGoodsDescription", Rule{Validator: MaxLength(500, Messages{}), Required: "Describe the goods"})
	set.Add("customs.declarationAccepted", Rule{
		Validator: MustBeTrue("You must accept the declaration"),
		Required:  "You must accept the declaration",
	})

	return set
}
