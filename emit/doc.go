/*

Process of emission

Directive Stream ->
	emit ->
Unit Log ->
	passes ->
Program ->
	split ->
Sections ->
	internal assembler ->
Binary Object (obj)

Program ->
	render ->
Assembly Text ->
	external assembler ->
Binary Object (obj)

The two paths share everything up to the Program. Which one produces
the persisted object is decided by the policy; under diff both run so
the objects can be compared.

*/
package emit
