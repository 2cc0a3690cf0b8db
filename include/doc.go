/*

The include package can be used to flatten a document that refers to other
files through include directives. You construct the Expander with the base
directory that the included paths are relative to and then call the Run
method on the document to be expanded. Every line that starts with the
directive start string (by default `#include "`) is replaced by the
contents of the named file, which are themselves expanded in the same way.

Each file is expanded at most once in a run. Any later reference to a file
that has already been expanded, including a reference back to a file that is
still being expanded, contributes nothing to the output. This means that
self-inclusion and circular includes are harmless.

A file that cannot be read stops the run and an error is returned. No partial
results are returned.

The Normalize function (and Write, which uses it) can then be used to collapse
runs of empty lines down to a single empty line.

*/
package include
