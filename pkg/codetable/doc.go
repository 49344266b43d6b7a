/*
Package codetable holds the immutable character-to-Morse mappings.

A Table is built once at package initialisation and never mutated. Lookups fold the
input to lower case, so upper and lower case letters share a code. Several Latin and
Cyrillic letters deliberately share one code (a/а, c/ц, q/щ, x/ь...).

Two variants are provided:

  - Default: the historical assignment, where Latin "v" shares ".--" with Cyrillic "в"
    and Latin "w" shares "...-" with Cyrillic "ж".
  - ITU: Latin "v" and "w" follow ITU-R M.1677-1 ("...-" and ".--"); everything else
    matches Default.
*/
package codetable
